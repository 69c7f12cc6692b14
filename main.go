// @title SkillSwap 后端 API
// @version 1.0
// @description 技能交换平台的后端服务器。

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"
	"skillswap_backend/internal/app"
	"skillswap_backend/internal/config"
	"skillswap_backend/pkg/logger"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "配置文件目录")
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	seedOnly := flag.Bool("seed-only", false, "执行迁移和初始数据写入，完成后退出")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.MigrateOnly = *migrateOnly
	cfg.SeedOnly = *seedOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if cfg.MigrateOnly || cfg.SeedOnly {
		logger.Log.Info("Database setup finished, exiting")
		return
	}

	application.Run()
}
