package providers

import (
	"github.com/samber/do/v2"

	"github.com/reeltrackapp/reeltrack-server/internal/catalog"
	"github.com/reeltrackapp/reeltrack-server/internal/config"
	"github.com/reeltrackapp/reeltrack-server/internal/logger"
)

// ProvideCatalogClient provides the TMDB catalog client.
func ProvideCatalogClient(i do.Injector) (*catalog.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Catalog.APIKey == "" {
		log.Warn("No TMDB API key configured, catalog requests will fail")
	}

	client := catalog.NewClient(catalog.Config{
		BaseURL:      cfg.Catalog.BaseURL,
		ImageBaseURL: cfg.Catalog.ImageBaseURL,
		APIKey:       cfg.Catalog.APIKey,
		Timeout:      cfg.Catalog.Timeout,
	}, log.Logger)

	return client, nil
}
