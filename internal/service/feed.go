package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/reeltrackapp/reeltrack-server/internal/catalog"
	"github.com/reeltrackapp/reeltrack-server/internal/domain"
	domainerrors "github.com/reeltrackapp/reeltrack-server/internal/errors"
	"github.com/reeltrackapp/reeltrack-server/internal/store"
)

// feedLimit caps a feed build at the newest events across all followees.
const feedLimit = 50

// unknownTitle is shown when catalog enrichment fails for an event.
const unknownTitle = "Unknown"

// FeedService assembles the activity feed a viewer sees: their followees'
// events joined with actor profiles and catalog metadata.
type FeedService struct {
	store    *store.Store
	catalog  *catalog.Client
	profiles *ProfileService
	logger   *slog.Logger
}

// NewFeedService creates a new feed service.
func NewFeedService(store *store.Store, catalog *catalog.Client, profiles *ProfileService, logger *slog.Logger) *FeedService {
	return &FeedService{
		store:    store,
		catalog:  catalog,
		profiles: profiles,
		logger:   logger,
	}
}

// BuildFeed returns the viewer's enriched feed, newest first.
// Following nobody yields an empty feed and no error. Catalog failures
// degrade individual items; store failures abort the build.
func (s *FeedService) BuildFeed(ctx context.Context, viewerID string) ([]*domain.FeedItem, error) {
	if viewerID == "" {
		return nil, domainerrors.Unauthorized("user id is required")
	}

	followees, err := s.store.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("resolve followees: %w", err)
	}
	if len(followees) == 0 {
		return nil, nil
	}

	events, err := s.store.GetActivitiesByActors(ctx, followees, feedLimit)
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}
	if len(events) == 0 {
		return nil, nil
	}

	actors, err := s.actorProfiles(ctx, events)
	if err != nil {
		return nil, err
	}

	media := s.resolveMedia(ctx, events)

	items := make([]*domain.FeedItem, 0, len(events))
	for _, event := range events {
		actor, ok := actors[event.UserID]
		if !ok {
			// Actor deleted since the event was written
			continue
		}

		item := &domain.FeedItem{
			Event:      event,
			Actor:      actor,
			MediaTitle: unknownTitle,
		}
		if event.HasMedia() {
			if m, ok := media[event.Ref()]; ok {
				item.MediaTitle = m.Title
				item.PosterURL = m.PosterURL
			}
		}
		item.Text = feedText(actor, event, item.MediaTitle)
		items = append(items, item)
	}
	return items, nil
}

// actorProfiles loads each distinct actor's profile once.
func (s *FeedService) actorProfiles(ctx context.Context, events []*domain.ActivityEvent) (map[string]*domain.Profile, error) {
	actors := make(map[string]*domain.Profile)
	for _, event := range events {
		if _, seen := actors[event.UserID]; seen {
			continue
		}
		profile, err := s.profiles.GetProfile(ctx, event.UserID)
		if err != nil {
			if domainerrors.Is(err, domainerrors.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("load actor %s: %w", event.UserID, err)
		}
		actors[event.UserID] = profile
	}
	return actors, nil
}

// resolveMedia fetches catalog metadata for every distinct media key in the
// batch: one goroutine per key, duplicates coalesced through a singleflight
// group scoped to this invocation. Failed lookups are logged and simply
// absent from the returned map.
func (s *FeedService) resolveMedia(ctx context.Context, events []*domain.ActivityEvent) map[domain.MediaRef]*catalog.Media {
	refs := make(map[domain.MediaRef]struct{})
	for _, event := range events {
		if event.HasMedia() {
			refs[event.Ref()] = struct{}{}
		}
	}
	if len(refs) == 0 {
		return nil
	}

	var (
		group   singleflight.Group
		mu      sync.Mutex
		wg      sync.WaitGroup
		resolved = make(map[domain.MediaRef]*catalog.Media, len(refs))
	)

	for ref := range refs {
		wg.Add(1)
		go func(ref domain.MediaRef) {
			defer wg.Done()

			key := fmt.Sprintf("%s:%d", ref.Kind, ref.TMDBID)
			v, err, _ := group.Do(key, func() (any, error) {
				return s.catalog.GetMediaDetails(ctx, ref)
			})
			if err != nil {
				s.logger.Warn("feed enrichment failed",
					"tmdb_id", ref.TMDBID,
					"kind", ref.Kind,
					"error", err,
				)
				return
			}

			mu.Lock()
			resolved[ref] = v.(*catalog.Media)
			mu.Unlock()
		}(ref)
	}
	wg.Wait()

	return resolved
}

// feedText renders the one-line display sentence for an event.
func feedText(actor *domain.Profile, event *domain.ActivityEvent, title string) string {
	name := actor.DisplayName
	if name == "" {
		name = actor.Username
	}

	switch event.Kind {
	case domain.ActivityAddedToList:
		status := event.Metadata.Status
		if status == "" {
			status = domain.StatusToWatch
		}
		return fmt.Sprintf("%s added %s to their %s list", name, title, status)
	case domain.ActivityStatusUpdate:
		return fmt.Sprintf("%s marked %s as %s", name, title, event.Metadata.Status)
	case domain.ActivityFavorited:
		return fmt.Sprintf("%s favorited %s", name, title)
	case domain.ActivityRated:
		return fmt.Sprintf("%s rated %s %d/10", name, title, event.Metadata.Rating)
	case domain.ActivityRemovedFromList:
		return fmt.Sprintf("%s removed %s from their list", name, title)
	default:
		return fmt.Sprintf("%s did something with %s", name, title)
	}
}
