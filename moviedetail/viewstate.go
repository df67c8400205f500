package moviedetail

import (
	"context"
	"sync"

	"moviebook/movie"
	"moviebook/uistate"

	"golang.org/x/sync/errgroup"
)

// Service is the subset of movie use cases the detail screen needs.
type Service interface {
	GetMovieDetails(ctx context.Context, id string) (*movie.Movie, error)
	IsBookmarked(ctx context.Context, id string) (bool, error)
	Bookmark(ctx context.Context, m movie.Movie) error
	RemoveBookmark(ctx context.Context, id string) error
}

type Snapshot struct {
	State      uistate.State `json:"state"`
	Movie      *movie.Movie  `json:"movie"`
	Bookmarked bool          `json:"bookmarked"`
}

// ViewState holds the detail screen of a single movie. Concurrent loads and
// toggles are not ordered; the last one to finish wins.
type ViewState struct {
	svc Service

	mu         sync.Mutex
	state      uistate.State
	movie      *movie.Movie
	bookmarked bool
}

func New(svc Service) *ViewState {
	return &ViewState{
		svc:   svc,
		state: uistate.Loading(),
	}
}

// LoadMovieDetails fetches the movie and its bookmark flag concurrently.
// On failure the previously loaded movie and flag are kept.
func (v *ViewState) LoadMovieDetails(ctx context.Context, id string) {
	v.mu.Lock()
	v.state = uistate.Loading()
	v.mu.Unlock()

	var (
		m          *movie.Movie
		bookmarked bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		m, err = v.svc.GetMovieDetails(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		bookmarked, err = v.svc.IsBookmarked(gctx, id)
		return err
	})
	err := g.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.state = uistate.FromErr(err)
		return
	}

	v.movie = m
	v.bookmarked = bookmarked
	if m == nil {
		v.state = uistate.Error(uistate.MessageEmpty)
		return
	}
	v.state = uistate.Success()
}

// ToggleBookmark flips the bookmark of the loaded movie. It does nothing
// when no movie is loaded.
func (v *ViewState) ToggleBookmark(ctx context.Context) error {
	v.mu.Lock()
	m := v.movie
	current := v.bookmarked
	v.mu.Unlock()

	if m == nil {
		return nil
	}

	var err error
	if current {
		err = v.svc.RemoveBookmark(ctx, m.ID)
	} else {
		err = v.svc.Bookmark(ctx, *m)
	}

	v.mu.Lock()
	v.bookmarked = uistate.ToggledBookmark(current, err)
	v.mu.Unlock()

	return err
}

func (v *ViewState) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	var m *movie.Movie
	if v.movie != nil {
		cp := *v.movie
		m = &cp
	}
	return Snapshot{
		State:      v.state,
		Movie:      m,
		Bookmarked: v.bookmarked,
	}
}
