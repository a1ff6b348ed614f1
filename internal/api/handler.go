package api

import (
	"github.com/gin-gonic/gin"

	"costlens/internal/format"
	"costlens/internal/importer"
	"costlens/internal/log"
	"costlens/internal/service/metrics"
	svcstore "costlens/internal/service/store"
)

// Options 处理器可选参数
type Options struct {
	Currency    format.CurrencyFormatter // 为空时使用默认币种
	TopExpenses int                      // <= 0 时使用 metrics.DefaultTopExpenses
	UploadDir   string                   // 上传文件保存目录，为空时使用系统临时目录
	Logger      *log.Logger
}

// Handler API 处理器
type Handler struct {
	store       svcstore.RecordStore
	coordinator *importer.Coordinator
	currency    format.CurrencyFormatter
	topN        int
	uploadDir   string
	log         *log.Logger
}

// NewHandler 创建 API 处理器
func NewHandler(store svcstore.RecordStore, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	currency := opts.Currency
	if currency == nil {
		currency = format.Default()
	}
	topN := opts.TopExpenses
	if topN <= 0 {
		topN = metrics.DefaultTopExpenses
	}
	return &Handler{
		store:       store,
		coordinator: importer.NewCoordinator(store, logger),
		currency:    currency,
		topN:        topN,
		uploadDir:   opts.UploadDir,
		log:         logger.WithComponent("api"),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 数据导入
	router.POST("/import", h.Import)
	router.POST("/inspect", h.Inspect)
	router.GET("/imports", h.ListImports)

	// 记录查询
	router.GET("/records", h.ListRecords)

	// 指标
	router.GET("/dashboard", h.GetDashboard)
	router.POST("/compare", h.Compare)
	router.GET("/dimensions", h.ListDimensions)
	router.POST("/playground", h.Playground)

	// 数据导出
	router.GET("/export", h.Export)
}
