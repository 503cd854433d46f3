package providers

import (
	"github.com/samber/do/v2"

	"github.com/reeltrackapp/reeltrack-server/internal/auth"
	"github.com/reeltrackapp/reeltrack-server/internal/catalog"
	"github.com/reeltrackapp/reeltrack-server/internal/logger"
	"github.com/reeltrackapp/reeltrack-server/internal/service"
)

// ProvideSessionService provides session and token lifecycle management.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides account registration and authentication.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sessions := do.MustInvoke[*service.SessionService](i)
	indexHandle := do.MustInvoke[*UserIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, sessions, indexHandle.UserIndex, log.Logger), nil
}

// ProvideProfileService provides public profile reads and updates.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*UserIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProfileService(storeHandle.Store, indexHandle.UserIndex, log.Logger), nil
}

// ProvideSocialService provides the follow graph and user search.
func ProvideSocialService(i do.Injector) (*service.SocialService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*UserIndexHandle](i)
	profiles := do.MustInvoke[*service.ProfileService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSocialService(storeHandle.Store, indexHandle.UserIndex, profiles, log.Logger), nil
}

// ProvideWatchlistService provides personal watch list management.
func ProvideWatchlistService(i do.Injector) (*service.WatchlistService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewWatchlistService(storeHandle.Store, log.Logger), nil
}

// ProvideFeedService provides the enriched activity feed.
func ProvideFeedService(i do.Injector) (*service.FeedService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	catalogClient := do.MustInvoke[*catalog.Client](i)
	profiles := do.MustInvoke[*service.ProfileService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFeedService(storeHandle.Store, catalogClient, profiles, log.Logger), nil
}
