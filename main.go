package main

import (
	"github.com/EricaRose1/Blogly/config"
	"github.com/EricaRose1/Blogly/migrations"
	"github.com/EricaRose1/Blogly/routes"
	"github.com/EricaRose1/Blogly/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase()

	// Schema must be current before the first request is accepted
	if err := migrations.Run(db); err != nil {
		utils.Sugar.Fatalf("migrations failed: %v", err)
	}

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
