package movielist

import (
	"context"
	"maps"
	"sync"

	"moviebook/movie"
	"moviebook/uistate"
)

// Service is the subset of movie use cases the list screen needs.
type Service interface {
	GetMovies(ctx context.Context) ([]movie.Movie, error)
	IsBookmarked(ctx context.Context, id string) (bool, error)
	Bookmark(ctx context.Context, m movie.Movie) error
	RemoveBookmark(ctx context.Context, id string) error
}

// Snapshot is the render-ready state of the list screen.
type Snapshot struct {
	State     uistate.State   `json:"state"`
	Movies    []movie.Movie   `json:"movies"`
	Query     string          `json:"query"`
	Sort      SortOption      `json:"sort"`
	Bookmarks map[string]bool `json:"bookmarks"`
}

// ViewState holds the list screen. The visible list is always recomputed
// from the fetched list, the query and the sort option.
type ViewState struct {
	svc Service

	mu        sync.Mutex
	state     uistate.State
	movies    []movie.Movie
	visible   []movie.Movie
	query     string
	sort      SortOption
	bookmarks map[string]bool

	fetchGen    uint64
	cancelFetch context.CancelFunc
}

// New returns a ViewState in the Loading state. Call FetchData to load it.
func New(svc Service) *ViewState {
	return &ViewState{
		svc:       svc,
		state:     uistate.Loading(),
		movies:    []movie.Movie{},
		visible:   []movie.Movie{},
		sort:      SortByTitle,
		bookmarks: map[string]bool{},
	}
}

// FetchData loads the catalog and the bookmark flag of every movie. A call
// supersedes any fetch still in flight: the older one is cancelled and its
// results are dropped.
func (v *ViewState) FetchData(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	v.mu.Lock()
	if v.cancelFetch != nil {
		v.cancelFetch()
	}
	v.fetchGen++
	gen := v.fetchGen
	v.cancelFetch = cancel
	v.state = uistate.Loading()
	v.mu.Unlock()

	movies, flags, err := v.load(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.fetchGen {
		return
	}
	v.cancelFetch = nil

	if err != nil {
		v.movies = []movie.Movie{}
		v.recompute()
		v.state = uistate.FromErr(err)
		return
	}

	v.movies = movies
	v.bookmarks = flags
	v.recompute()
	if len(movies) == 0 {
		v.state = uistate.Error(uistate.MessageEmpty)
		return
	}
	v.state = uistate.Success()
}

// load checks bookmarks one movie at a time.
func (v *ViewState) load(ctx context.Context) ([]movie.Movie, map[string]bool, error) {
	movies, err := v.svc.GetMovies(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	flags := make(map[string]bool, len(movies))
	for _, m := range movies {
		ok, err := v.svc.IsBookmarked(ctx, m.ID)
		if err != nil {
			return nil, nil, err
		}
		flags[m.ID] = ok
	}
	return movies, flags, nil
}

func (v *ViewState) UpdateSearchQuery(q string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = q
	v.recompute()
}

func (v *ViewState) UpdateSortOption(opt SortOption) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sort = opt
	v.recompute()
}

// ToggleBookmark bookmarks m or removes its bookmark depending on the
// current flag, then flips the flag. The write error is returned to the
// caller and does not stop the flip.
func (v *ViewState) ToggleBookmark(ctx context.Context, m movie.Movie) error {
	v.mu.Lock()
	current := v.bookmarks[m.ID]
	v.mu.Unlock()

	var err error
	if current {
		err = v.svc.RemoveBookmark(ctx, m.ID)
	} else {
		err = v.svc.Bookmark(ctx, m)
	}

	v.mu.Lock()
	next := maps.Clone(v.bookmarks)
	next[m.ID] = uistate.ToggledBookmark(current, err)
	v.bookmarks = next
	v.mu.Unlock()

	return err
}

// IsBookmarked reports the cached flag for id; unknown ids are false.
func (v *ViewState) IsBookmarked(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.bookmarks[id]
}

func (v *ViewState) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Snapshot{
		State:     v.state,
		Movies:    append([]movie.Movie{}, v.visible...),
		Query:     v.query,
		Sort:      v.sort,
		Bookmarks: maps.Clone(v.bookmarks),
	}
}

// recompute must be called with mu held.
func (v *ViewState) recompute() {
	v.visible = Visible(v.movies, v.query, v.sort)
}
