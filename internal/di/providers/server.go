package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/reeltrackapp/reeltrack-server/internal/api"
	"github.com/reeltrackapp/reeltrack-server/internal/catalog"
	"github.com/reeltrackapp/reeltrack-server/internal/config"
	"github.com/reeltrackapp/reeltrack-server/internal/logger"
	"github.com/reeltrackapp/reeltrack-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	catalogClient := do.MustInvoke[*catalog.Client](i)

	services := &api.Services{
		Auth:      do.MustInvoke[*service.AuthService](i),
		Session:   do.MustInvoke[*service.SessionService](i),
		Watchlist: do.MustInvoke[*service.WatchlistService](i),
		Social:    do.MustInvoke[*service.SocialService](i),
		Profile:   do.MustInvoke[*service.ProfileService](i),
		Feed:      do.MustInvoke[*service.FeedService](i),
	}

	handler := api.NewServer(services, catalogClient, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
