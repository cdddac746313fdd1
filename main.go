package main

import (
	"context"

	"github.com/hexpertify/moodlift/config"
	"github.com/hexpertify/moodlift/models"
	"github.com/hexpertify/moodlift/routes"
	"github.com/hexpertify/moodlift/services"
	"github.com/hexpertify/moodlift/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	services.InitValidator()

	db := config.InitDatabase(models.All()...)
	if missing := config.MissingColumns(db); len(missing) > 0 {
		utils.Sugar.Warnf("schema still missing columns: %v", missing)
	}

	if utils.GetRedis() == nil {
		utils.Sugar.Info("redis disabled, using in-memory state and no cache")
	} else {
		utils.FlushCaches(context.Background())
	}

	r := routes.SetupRouter(db)

	closeDB := func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r, closeDB, utils.CloseRedis); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
