package repository

import (
	"context"
	"log/slog"

	"moviebook/movie"
)

// Catalog is the remote movie API.
type Catalog interface {
	ListMovies(ctx context.Context) ([]movie.RemoteMovie, error)
	GetMovie(ctx context.Context, id string) (movie.RemoteMovie, error)
}

// BookmarkStore persists bookmarks keyed by movie id.
type BookmarkStore interface {
	WatchAll(ctx context.Context) <-chan movie.BookmarkBatch
	Upsert(ctx context.Context, b movie.Bookmark) error
	ExistsByID(ctx context.Context, id string) (bool, error)
	DeleteByID(ctx context.Context, id string) error
}

// MovieRepository merges the remote catalog with the local bookmark store.
//
// Every failure from either side is logged and converted into a safe
// default: an empty list, a nil movie, false. Errors are never returned, so
// callers cannot tell a missing movie from a failed request.
type MovieRepository struct {
	catalog   Catalog
	bookmarks BookmarkStore
	logger    *slog.Logger
}

// NewMovieRepository creates a repository. A nil logger uses slog.Default.
func NewMovieRepository(c Catalog, s BookmarkStore, logger *slog.Logger) *MovieRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &MovieRepository{
		catalog:   c,
		bookmarks: s,
		logger:    logger.With("component", "movie_repository"),
	}
}

func (r *MovieRepository) GetMovies(ctx context.Context) ([]movie.Movie, error) {
	records, err := r.catalog.ListMovies(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "list movies failed", "error", err)
		return []movie.Movie{}, nil
	}

	movies := make([]movie.Movie, len(records))
	for i, rec := range records {
		movies[i] = movie.FromRemote(rec)
	}
	return movies, nil
}

func (r *MovieRepository) GetMovieDetails(ctx context.Context, id string) (*movie.Movie, error) {
	rec, err := r.catalog.GetMovie(ctx, id)
	if err != nil {
		r.logger.WarnContext(ctx, "get movie failed", "movie_id", id, "error", err)
		return nil, nil
	}

	m := movie.FromRemote(rec)
	return &m, nil
}

// ObserveBookmarkedMovies re-emits the whole mapped bookmark list after
// every store change. A failed read emits an empty list; the stream
// continues until ctx is done.
func (r *MovieRepository) ObserveBookmarkedMovies(ctx context.Context) <-chan []movie.Movie {
	out := make(chan []movie.Movie)
	batches := r.bookmarks.WatchAll(ctx)

	go func() {
		defer close(out)

		for batch := range batches {
			movies := []movie.Movie{}
			if batch.Err != nil {
				r.logger.WarnContext(ctx, "read bookmarks failed", "error", batch.Err)
			} else {
				movies = make([]movie.Movie, len(batch.Bookmarks))
				for i, b := range batch.Bookmarks {
					movies[i] = movie.FromBookmark(b)
				}
			}

			select {
			case out <- movies:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (r *MovieRepository) IsBookmarked(ctx context.Context, id string) (bool, error) {
	ok, err := r.bookmarks.ExistsByID(ctx, id)
	if err != nil {
		r.logger.WarnContext(ctx, "check bookmark failed", "movie_id", id, "error", err)
		return false, nil
	}
	return ok, nil
}

// Bookmark inserts or replaces the bookmark for m.ID. A store failure is
// logged and otherwise ignored.
func (r *MovieRepository) Bookmark(ctx context.Context, m movie.Movie) error {
	if err := r.bookmarks.Upsert(ctx, movie.ToBookmark(m)); err != nil {
		r.logger.WarnContext(ctx, "save bookmark failed", "movie_id", m.ID, "error", err)
	}
	return nil
}

func (r *MovieRepository) RemoveBookmark(ctx context.Context, id string) error {
	if err := r.bookmarks.DeleteByID(ctx, id); err != nil {
		r.logger.WarnContext(ctx, "delete bookmark failed", "movie_id", id, "error", err)
	}
	return nil
}
