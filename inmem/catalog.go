package inmem

import (
	"context"
	"sync"

	"moviebook/movie"
)

// Catalog is a fixed movie catalog used for local runs and tests.
type Catalog struct {
	mu     sync.RWMutex
	movies []movie.RemoteMovie
	err    error
}

func NewCatalog(movies ...movie.RemoteMovie) *Catalog {
	return &Catalog{movies: movies}
}

// SetMovies replaces the catalog contents.
func (c *Catalog) SetMovies(movies ...movie.RemoteMovie) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.movies = movies
}

// FailWith makes every subsequent call return err. A nil err restores
// normal behaviour.
func (c *Catalog) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *Catalog) ListMovies(_ context.Context) ([]movie.RemoteMovie, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return nil, c.err
	}
	return append([]movie.RemoteMovie(nil), c.movies...), nil
}

func (c *Catalog) GetMovie(_ context.Context, id string) (movie.RemoteMovie, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return movie.RemoteMovie{}, c.err
	}
	for _, m := range c.movies {
		if m.ID == id {
			return m, nil
		}
	}
	return movie.RemoteMovie{}, movie.ErrMovieNotFound
}
