package bookmarklist

import (
	"context"
	"sync"

	"moviebook/movie"
)

type Service interface {
	ObserveBookmarkedMovies(ctx context.Context) <-chan []movie.Movie
	RemoveBookmark(ctx context.Context, id string) error
}

// ViewState mirrors the bookmark table for the bookmarks screen.
type ViewState struct {
	svc Service

	mu     sync.RWMutex
	movies []movie.Movie
}

func New(svc Service) *ViewState {
	return &ViewState{svc: svc, movies: []movie.Movie{}}
}

// Run keeps Movies in sync with the bookmark stream until ctx is done.
// onChange, when set, is called with every new list.
func (v *ViewState) Run(ctx context.Context, onChange func([]movie.Movie)) {
	for movies := range v.svc.ObserveBookmarkedMovies(ctx) {
		v.mu.Lock()
		v.movies = movies
		v.mu.Unlock()

		if onChange != nil {
			onChange(append([]movie.Movie{}, movies...))
		}
	}
}

func (v *ViewState) Movies() []movie.Movie {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]movie.Movie{}, v.movies...)
}

// RemoveBookmark deletes the bookmark; the list updates once the store
// reports the change.
func (v *ViewState) RemoveBookmark(ctx context.Context, id string) error {
	return v.svc.RemoveBookmark(ctx, id)
}
