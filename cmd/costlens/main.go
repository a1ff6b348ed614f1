package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/xuri/excelize/v2"

	"costlens/internal/config"
	"costlens/internal/importer"
	"costlens/internal/log"
	"costlens/internal/server"
	"costlens/internal/service/excel"
	"costlens/internal/service/metrics"
	"costlens/internal/store"
	"costlens/internal/util"
)

var (
	port       = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode    = flag.Bool("dev", false, "开发模式")
	dataDir    = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
	importFile = flag.String("import", "", "导入成本表后退出 (.xlsx/.xlsm/.csv)")
	clearFirst = flag.Bool("clear", false, "与 -import 一起使用：导入前清空已有记录")
	inspect    = flag.String("inspect", "", "检查成本表的列与年份分布后退出，不写入数据库")
	exportKind = flag.String("export", "", "导出 Excel 后退出 (records 或 dashboard)")
	openFile   = flag.Bool("open", false, "与 -export 一起使用：导出后用系统默认程序打开")
)

func main() {
	flag.Parse()

	// 加载配置
	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败，使用默认配置: %v\n", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.Log.Level),
		Component: "costlens",
		Output:    os.Stderr,
	})
	log.SetDefault(logger)

	// 仅检查文件，不需要数据库
	if *inspect != "" {
		if err := runInspect(*inspect); err != nil {
			logger.Error("检查文件失败", "file", *inspect, "error", err)
			os.Exit(1)
		}
		return
	}

	// 确保数据目录存在
	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		logger.Error("创建数据目录失败", "error", err)
		os.Exit(1)
	}

	st, err := store.New(config.DBPath(dir, cfg))
	if err != nil {
		logger.Error("初始化数据库失败", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	switch {
	case *importFile != "":
		if err := runImport(st, logger, *importFile, *clearFirst); err != nil {
			logger.Error("导入失败", "file", *importFile, "error", err)
			st.Close()
			os.Exit(1)
		}
		return
	case *exportKind != "":
		path, err := runExport(st, cfg, dir, *exportKind)
		if err != nil {
			logger.Error("导出失败", "kind", *exportKind, "error", err)
			st.Close()
			os.Exit(1)
		}
		fmt.Printf("已导出: %s\n", path)
		if *openFile {
			if err := util.OpenWithFallback(path); err != nil {
				fmt.Printf("无法自动打开文件，请手动打开: %s\n", path)
			}
		}
		return
	}

	runServer(cfg, info, st, dir, logger)
}

func runServer(cfg *config.AppConfig, info config.LoadConfigInfo, st *store.Store, dir string, logger *log.Logger) {
	fmt.Println("==========================================")
	fmt.Println("  CostLens - 物流成本分析工具")
	fmt.Println("==========================================")
	fmt.Printf("数据目录: %s\n", dir)

	// 未显式指定端口时，默认端口被占用则顺延
	if !info.PortSpecified && *port == 0 {
		if p, err := util.FindAvailablePort(cfg.Server.Port, 10); err == nil {
			cfg.Server.Port = p
		}
	}

	srv, err := server.NewServer(cfg, st, dir, logger)
	if err != nil {
		logger.Error("创建服务失败", "error", err)
		return
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	// 启动服务器
	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			logger.Error("服务启动失败", "error", err)
			os.Exit(1)
		}
	}()

	if cfg.Server.DevMode {
		fmt.Printf("开发模式: 前端 %s，接口 %s/api\n", cfg.Server.FrontendURL, url)
	} else {
		fmt.Printf("接口地址: %s/api/status\n", url)
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
}

func runInspect(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sheet, err := excel.ReadSheet(f, path)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(importer.Inspect(sheet), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runImport(st *store.Store, logger *log.Logger, path string, clearExisting bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := importer.NewCoordinator(st, logger).ImportSync(ctx, importer.ImportOptions{
		FilePath:      path,
		ClearExisting: clearExisting,
	})
	if err != nil {
		return err
	}

	fmt.Printf("导入完成: %s，共 %s 行，有效 %s 行，丢弃 %d 行，耗时 %s\n",
		report.Filename,
		humanize.Comma(int64(report.TotalRows)),
		humanize.Comma(int64(report.ImportedRows)),
		len(report.DroppedRows),
		report.Duration.Round(time.Millisecond),
	)
	for _, w := range report.Warnings {
		fmt.Printf("  警告: %s\n", w)
	}
	return nil
}

func runExport(st *store.Store, cfg *config.AppConfig, dir, kind string) (string, error) {
	records, err := st.LoadAll(context.Background())
	if err != nil {
		return "", err
	}

	exp := excel.NewExporter()
	var file *excelize.File
	switch kind {
	case "records":
		file, err = exp.ExportRecords(records)
	case "dashboard":
		file, err = exp.ExportDashboard(metrics.AggregateN(records, cfg.Dashboard.TopExpenses))
	default:
		return "", fmt.Errorf("unknown export kind: %s", kind)
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	path := filepath.Join(dir, "exports", fmt.Sprintf("costlens-%s-%s.xlsx", kind, time.Now().Format("20060102-150405")))
	if err := file.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}
	return path, nil
}
