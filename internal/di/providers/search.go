package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/reeltrackapp/reeltrack-server/internal/config"
	"github.com/reeltrackapp/reeltrack-server/internal/logger"
	"github.com/reeltrackapp/reeltrack-server/internal/search"
)

// UserIndexHandle wraps the bleve user index with shutdown capability.
type UserIndexHandle struct {
	*search.UserIndex
}

// Shutdown implements do.Shutdownable.
func (h *UserIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideUserIndex provides the bleve user search index.
func ProvideUserIndex(i do.Injector) (*UserIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewUserIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("User search index initialized", "documents", docCount)

	return &UserIndexHandle{UserIndex: index}, nil
}

// TriggerUserReindexIfNeeded rebuilds the user index from the store when it is
// empty but users exist, e.g. after a mapping version bump wiped the index.
func TriggerUserReindexIfNeeded(i do.Injector) {
	indexHandle := do.MustInvoke[*UserIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocumentCount()
	if docCount > 0 {
		return
	}

	go func() {
		ctx := context.Background()
		indexed := 0
		for user, err := range storeHandle.Users.List(ctx) {
			if err != nil {
				log.Error("User reindex aborted", "error", err)
				return
			}
			if err := indexHandle.IndexUser(user); err != nil {
				log.Warn("Failed to reindex user", "user_id", user.ID, "error", err)
				continue
			}
			indexed++
		}
		if indexed > 0 {
			log.Info("User reindex completed", "documents", indexed)
		}
	}()
}
