//go:build wireinject
// +build wireinject

package main

import (
	"log/slog"

	"github.com/google/wire"

	"github.com/yanqian/lifepattern/internal/bootstrap"
	"github.com/yanqian/lifepattern/internal/domain/analyzer"
	"github.com/yanqian/lifepattern/internal/infra/config"
	httpiface "github.com/yanqian/lifepattern/internal/interface/http"
	"github.com/yanqian/lifepattern/pkg/logger"
)

var analyzerSet = wire.NewSet(
	provideAnalyzerConfig,
	provideLookupStore,
	provideIPLocator,
	provideGeocoder,
	provideReverseGeocoder,
	provideWeatherClient,
	provideTipPicker,
	analyzer.NewService,
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		analyzerSet,
		provideCacheInfo,
		provideWarmer,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}

// initializeService builds the analyzer alone for one-shot CLI commands.
func initializeService(log *slog.Logger) (analyzer.Service, error) {
	wire.Build(
		config.Load,
		analyzerSet,
	)
	return nil, nil
}
