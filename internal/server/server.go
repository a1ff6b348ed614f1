package server

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"costlens/internal/api"
	"costlens/internal/config"
	"costlens/internal/format"
	"costlens/internal/log"
	svcstore "costlens/internal/service/store"
)

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	store  svcstore.RecordStore
	api    *api.Handler
	log    *log.Logger
}

// NewServer 创建服务器
// dataDir 为 config.EnsureDataDir 返回的数据目录，上传文件保存在其 uploads 子目录。
func NewServer(cfg *config.AppConfig, store svcstore.RecordStore, dataDir string, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Discard()
	}
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	currency, err := format.NewCurrencyFormatter(cfg.Dashboard.CurrencyCode)
	if err != nil {
		return nil, err
	}

	handler := api.NewHandler(store, api.Options{
		Currency:    currency,
		TopExpenses: cfg.Dashboard.TopExpenses,
		UploadDir:   filepath.Join(dataDir, "uploads"),
		Logger:      logger,
	})

	s := &Server{
		router: gin.New(),
		store:  store,
		api:    handler,
		log:    logger.WithComponent("server"),
	}

	s.setupRoutes(devMode, strings.TrimRight(cfg.Server.FrontendURL, "/"))

	return s, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(devMode bool, frontendURL string) {
	s.router.Use(gin.Recovery(), s.requestLog())

	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// API 路由
	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	if devMode && frontendURL != "" {
		// 开发模式：非 API 请求重定向到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.JSON(http.StatusNotFound, gin.H{"error": "接口不存在"})
				return
			}
			c.Redirect(http.StatusTemporaryRedirect, frontendURL+c.Request.URL.Path)
		})
		return
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "接口不存在"})
	})
}

// requestLog 访问日志
func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Handler 返回 http.Handler（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
