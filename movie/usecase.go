package movie

import "context"

// Service is what the screens depend on: one method per user intent.
type Service interface {
	GetMovies(ctx context.Context) ([]Movie, error)
	GetMovieDetails(ctx context.Context, id string) (*Movie, error)
	IsBookmarked(ctx context.Context, id string) (bool, error)
	Bookmark(ctx context.Context, m Movie) error
	RemoveBookmark(ctx context.Context, id string) error
	ObserveBookmarkedMovies(ctx context.Context) <-chan []Movie
}

// Repository is the single source of truth for catalog data and bookmark
// state. A nil *Movie from GetMovieDetails means the movie is absent.
type Repository interface {
	GetMovies(ctx context.Context) ([]Movie, error)
	GetMovieDetails(ctx context.Context, id string) (*Movie, error)
	IsBookmarked(ctx context.Context, id string) (bool, error)
	Bookmark(ctx context.Context, m Movie) error
	RemoveBookmark(ctx context.Context, id string) error
	ObserveBookmarkedMovies(ctx context.Context) <-chan []Movie
}

type Usecase struct {
	r Repository
}

func NewUsecase(r Repository) *Usecase {
	return &Usecase{r: r}
}

func (uc *Usecase) GetMovies(ctx context.Context) ([]Movie, error) {
	return uc.r.GetMovies(ctx)
}

func (uc *Usecase) GetMovieDetails(ctx context.Context, id string) (*Movie, error) {
	return uc.r.GetMovieDetails(ctx, id)
}

func (uc *Usecase) IsBookmarked(ctx context.Context, id string) (bool, error) {
	return uc.r.IsBookmarked(ctx, id)
}

func (uc *Usecase) Bookmark(ctx context.Context, m Movie) error {
	return uc.r.Bookmark(ctx, m)
}

func (uc *Usecase) RemoveBookmark(ctx context.Context, id string) error {
	return uc.r.RemoveBookmark(ctx, id)
}

// ObserveBookmarkedMovies streams the full bookmark list after every change
// until ctx is done.
func (uc *Usecase) ObserveBookmarkedMovies(ctx context.Context) <-chan []Movie {
	return uc.r.ObserveBookmarkedMovies(ctx)
}
