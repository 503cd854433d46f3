// Package di provides dependency injection configuration for the ReelTrack server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/reeltrackapp/reeltrack-server/internal/auth"
	"github.com/reeltrackapp/reeltrack-server/internal/catalog"
	"github.com/reeltrackapp/reeltrack-server/internal/config"
	"github.com/reeltrackapp/reeltrack-server/internal/di/providers"
	"github.com/reeltrackapp/reeltrack-server/internal/logger"
	"github.com/reeltrackapp/reeltrack-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideUserIndex)

	// External catalog
	do.Provide(injector, providers.ProvideCatalogClient)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideSocialService)
	do.Provide(injector, providers.ProvideWatchlistService)
	do.Provide(injector, providers.ProvideFeedService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the server is running.
// This triggers lazy initialization of every provider in dependency order.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.UserIndexHandle](injector)
	_ = do.MustInvoke[*catalog.Client](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.ProfileService](injector)
	_ = do.MustInvoke[*service.SocialService](injector)
	_ = do.MustInvoke[*service.WatchlistService](injector)
	_ = do.MustInvoke[*service.FeedService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Rebuild the user index if a mapping bump wiped it.
	providers.TriggerUserReindexIfNeeded(injector)

	return nil
}
