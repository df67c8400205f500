package inmem

import (
	"context"
	"sync"

	"moviebook/movie"
	"moviebook/pkg/broadcast"
)

// BookmarkStore keeps bookmarks in process memory. Snapshots list bookmarks
// in the order they were last written.
type BookmarkStore struct {
	mu    sync.RWMutex
	byID  map[string]movie.Bookmark
	order []string
	hub   *broadcast.Hub
}

func NewBookmarkStore() *BookmarkStore {
	return &BookmarkStore{
		byID: make(map[string]movie.Bookmark),
		hub:  broadcast.New(),
	}
}

// Changes is the hub signalled after every write.
func (s *BookmarkStore) Changes() *broadcast.Hub {
	return s.hub
}

func (s *BookmarkStore) WatchAll(ctx context.Context) <-chan movie.BookmarkBatch {
	return broadcast.Watch(ctx, s.hub, func(context.Context) movie.BookmarkBatch {
		return movie.BookmarkBatch{Bookmarks: s.all()}
	})
}

func (s *BookmarkStore) Upsert(_ context.Context, b movie.Bookmark) error {
	s.mu.Lock()
	if _, ok := s.byID[b.ID]; ok {
		s.removeFromOrder(b.ID)
	}
	s.byID[b.ID] = copyBookmark(b)
	s.order = append(s.order, b.ID)
	s.mu.Unlock()

	s.hub.Notify()
	return nil
}

func (s *BookmarkStore) ExistsByID(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[id]
	return ok, nil
}

func (s *BookmarkStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.byID[id]
	if ok {
		delete(s.byID, id)
		s.removeFromOrder(id)
	}
	s.mu.Unlock()

	if ok {
		s.hub.Notify()
	}
	return nil
}

func (s *BookmarkStore) all() []movie.Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]movie.Bookmark, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, copyBookmark(s.byID[id]))
	}
	return out
}

// removeFromOrder must be called with mu held.
func (s *BookmarkStore) removeFromOrder(id string) {
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func copyBookmark(b movie.Bookmark) movie.Bookmark {
	b.Poster = copyString(b.Poster)
	b.Description = copyString(b.Description)
	b.Genre = copyString(b.Genre)
	b.Director = copyString(b.Director)
	b.Cast = copyString(b.Cast)
	return b
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
