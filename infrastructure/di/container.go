// Package di assembles the service from its configuration.
package di

import (
	"go.uber.org/zap"

	"yti-common/application/security"
	"yti-common/application/services"
	"yti-common/infrastructure/config"
	"yti-common/infrastructure/groupmanagement"
	"yti-common/infrastructure/observability"
	"yti-common/infrastructure/persistence/repository"
	"yti-common/infrastructure/search"
)

// Container holds all application dependencies. Metrics and Authenticator
// are nil when disabled by configuration.
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	LogLevel        zap.AtomicLevel
	Metrics         *observability.Collector
	Repository      *repository.CommonRepository
	Directory       *groupmanagement.Client
	GroupManagement *services.GroupManagementService
	Frontend        *services.FrontendService
	Version         *services.VersionService
	Search          *search.ClientWrapper
	Organizations   *search.OrganizationIndexer
	Authenticator   *security.JWTAuthenticator
}
