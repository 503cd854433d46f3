// Package search provides full-text user search backed by Bleve.
package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/reeltrackapp/reeltrack-server/internal/domain"
)

// UserIndex wraps a Bleve index over user profiles.
//
// Thread safety: all public methods are safe for concurrent use.
// The mutex protects against index corruption during rebuild operations.
type UserIndex struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the user search index.
type Options struct {
	DataPath string       // Directory for index storage
	Logger   *slog.Logger // Logger for operations (uses stderr if nil)
}

// mappingVersion is incremented whenever the index mapping changes.
// A mismatch on startup triggers an automatic rebuild.
const mappingVersion = "1"

// NewUserIndex creates or opens the user search index.
// A corrupted or outdated index is removed and recreated; callers should
// reindex all users after startup when DocumentCount reports zero.
func NewUserIndex(opts Options) (*UserIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	indexPath := filepath.Join(opts.DataPath, "users.bleve")
	versionPath := filepath.Join(opts.DataPath, "users.version")

	var index bleve.Index
	var err error
	needsRebuild := false

	indexExists := false
	if _, statErr := os.Stat(indexPath); statErr == nil {
		indexExists = true
	}

	if indexExists {
		existingVersion, readErr := os.ReadFile(versionPath)
		if readErr != nil {
			logger.Info("user index has no version file, will rebuild",
				"new_version", mappingVersion,
			)
			needsRebuild = true
		} else if string(existingVersion) != mappingVersion {
			logger.Info("user index mapping version changed, will rebuild",
				"old_version", string(existingVersion),
				"new_version", mappingVersion,
			)
			needsRebuild = true
		}
	}

	if !needsRebuild && indexExists {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open existing user index, will recreate",
				"path", indexPath,
				"error", err,
			)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
		index = nil
	}

	if index == nil {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(mappingVersion), 0644); writeErr != nil {
			logger.Warn("failed to write user index version file", "error", writeErr)
		}
		logger.Info("created new user search index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened existing user search index", "path", indexPath)
	}

	return &UserIndex{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, nil
}

// buildIndexMapping creates the Bleve mapping for user documents.
// Usernames use the simple analyzer so exact handles match without stemming;
// display names get the same treatment since they are short labels, not prose.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = simple.Name

	docMapping := bleve.NewDocumentMapping()

	usernameMapping := bleve.NewTextFieldMapping()
	usernameMapping.Analyzer = simple.Name
	usernameMapping.Store = true
	docMapping.AddFieldMappingsAt("username", usernameMapping)

	displayNameMapping := bleve.NewTextFieldMapping()
	displayNameMapping.Analyzer = simple.Name
	displayNameMapping.Store = true
	docMapping.AddFieldMappingsAt("display_name", displayNameMapping)

	bioMapping := bleve.NewTextFieldMapping()
	bioMapping.Store = false
	docMapping.AddFieldMappingsAt("bio", bioMapping)

	idMapping := bleve.NewTextFieldMapping()
	idMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

// userDoc flattens a user for indexing. Lowercase keys keep field names
// aligned with the mapping.
func userDoc(u *domain.User) map[string]any {
	return map[string]any{
		"id":           u.ID,
		"username":     u.Username,
		"display_name": u.DisplayName,
		"bio":          u.Bio,
	}
}

// Close closes the index and releases resources.
func (s *UserIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexUser indexes or reindexes a single user.
func (s *UserIndex) IndexUser(u *domain.User) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Index(u.ID, userDoc(u))
}

// IndexUsers indexes users in batches. Significantly faster than calling
// IndexUser in a loop during startup reindexing.
func (s *UserIndex) IndexUsers(users []*domain.User) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	const batchSize = 500

	for i := 0; i < len(users); i += batchSize {
		end := min(i+batchSize, len(users))

		batch := s.index.NewBatch()
		for _, u := range users[i:end] {
			if err := batch.Index(u.ID, userDoc(u)); err != nil {
				return fmt.Errorf("batch index %s: %w", u.ID, err)
			}
		}
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// DeleteUser removes a user from the index.
func (s *UserIndex) DeleteUser(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(id)
}

// DocumentCount returns the total number of indexed users.
func (s *UserIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}
