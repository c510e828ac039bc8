package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/campaign-dashboard-api/infrastructure/integrator/sfmc"
	"github.com/vfg2006/campaign-dashboard-api/internal/api"
	"github.com/vfg2006/campaign-dashboard-api/internal/config"
	"github.com/vfg2006/campaign-dashboard-api/internal/scheduler"
	"github.com/vfg2006/campaign-dashboard-api/internal/usecases/dashboarding"
	"github.com/vfg2006/campaign-dashboard-api/internal/usecases/importing"
	"github.com/vfg2006/campaign-dashboard-api/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)
	logrus.Infof("log level set to %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sfmcIntegrator := sfmc.NewFromConfig(cfg, nil)

	dashboardService := dashboarding.NewService(sfmcIntegrator, dashboarding.NewSynthesizer(nil, nil))
	importer := importing.NewService(nil)

	tokenWarmupService := scheduler.NewTokenWarmupService(sfmcIntegrator, cfg)
	if err := tokenWarmupService.Start(ctx); err != nil {
		logrus.WithError(err).Error("failed to start the token warm-up scheduler")
	}
	defer tokenWarmupService.Stop()

	server, err := api.New(cfg, dashboardService, importer, tokenWarmupService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}
