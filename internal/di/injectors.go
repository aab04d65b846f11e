//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"zapperd/internal"
	"zapperd/internal/confstore"
	"zapperd/internal/controllers"
	"zapperd/internal/providers"
	"zapperd/internal/services"
	"zapperd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewRelayStoreProvider,
		providers.NewMetricsProvider,

		confstore.NewZstdCompressor,
		confstore.NewFileManager,

		services.NewConfigService,
		services.ProvideConfigStats,
		services.NewRelayService,
		services.NewImportService,
		services.NewDispatchService,

		controllers.NewRelayController,
		controllers.NewConfigController,
		controllers.NewShockController,
		controllers.NewHealthController,

		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
