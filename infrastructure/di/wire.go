//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"yti-common/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogLevel,
	ProvideLogger,
	ProvideMetrics,
	ProvideCommonRepository,
	ProvideDirectory,
	ProvideGroupManagementService,
	ProvideFrontendService,
	ProvideVersionService,
	ProvideSearchClient,
	ProvideOrganizationIndexer,
	ProvideAuthenticator,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container. The returned cleanup
// releases the resources the container holds.
func InitializeContainer(cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil
}
