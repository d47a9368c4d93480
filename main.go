package main

import (
	"flag"
	"log"

	"qbank_backend/internal/app"
	"qbank_backend/internal/config"
	"qbank_backend/pkg/configwatcher"
	"qbank_backend/pkg/logger"

	"go.uber.org/zap"
)

// @title Question Bank API
// @version 1.0
// @description 试题库后端：教师提交、同行审核、管理端聚合导出
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	forceMigrate := flag.Bool("migrate", false, "run database migration before start")
	migrateOnly := flag.Bool("migrate-only", false, "run database migration and exit")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg.ForceMigrate = *forceMigrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	application, err := app.NewApp(cfg)
	if err != nil {
		logger.Log.Fatal("application init failed", zap.Error(err))
	}

	if cfg.MigrateOnly {
		logger.Log.Info("migration completed, exiting (--migrate-only)")
		return
	}

	// 配置文件热加载：仅覆盖可在线调整的片段，端口等需重启生效
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		if reloaded, ok := newCfg.(*config.Config); ok {
			cfg.RateLimit = reloaded.RateLimit
			cfg.CORS = reloaded.CORS
			logger.Log.Info("config reloaded")
		}
	})

	if err := application.Run(); err != nil {
		logger.Log.Fatal("server error", zap.Error(err))
	}
}
