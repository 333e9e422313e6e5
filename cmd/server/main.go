package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/mouse-haven/internal/app"
	"github.com/mouse-haven/internal/config"
	"github.com/mouse-haven/internal/constants"
	"github.com/mouse-haven/internal/logger"
	"github.com/mouse-haven/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
)

func main() {
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	printStartupBanner(mode)

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	// 关系型存储需要先初始化数据库并迁移
	if usesDatabase(cfg.Storage.Driver) {
		driver := cfg.Database.Driver
		if strings.EqualFold(strings.TrimSpace(cfg.Storage.Driver), constants.StorageDriverPostgres) {
			driver = constants.StorageDriverPostgres
		}
		if err := models.InitDB(driver, cfg.Database.DSN, models.DBPoolConfig{
			MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
			MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
			ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
			ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
		}); err != nil {
			stdLog.Fatalf("数据库初始化失败: %v", err)
		}
		if err := models.AutoMigrate(nil); err != nil {
			stdLog.Fatalf("数据库迁移失败: %v", err)
		}
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func usesDatabase(storageDriver string) bool {
	switch strings.ToLower(strings.TrimSpace(storageDriver)) {
	case constants.StorageDriverSQLite, constants.StorageDriverPostgres:
		return true
	default:
		return false
	}
}

func printStartupBanner(mode string) {
	fmt.Println(ansiCyan + ansiBold + "Mouse Haven storefront API" + ansiReset)
	fmt.Println(ansiDim + "mode: " + mode + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}
