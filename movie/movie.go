package movie

import "moviebook/errs"

var (
	ErrMovieIDRequired = errs.Errorf(errs.EINVALID, "movie: id is required")
	ErrMovieNotFound   = errs.Errorf(errs.ENOTFOUND, "movie: not found")
)

// RemoteMovie is a catalog record as transmitted by the remote movie API.
type RemoteMovie struct {
	ID              string   `json:"id"`
	CreatedAt       int64    `json:"created_at"`
	Title           string   `json:"title"`
	Genres          []string `json:"genre"`
	Rating          Rating   `json:"rating"`
	ReleaseDate     int64    `json:"release_date"`
	PosterURL       string   `json:"poster_url"`
	DurationMinutes int64    `json:"duration_minutes"`
	Director        string   `json:"director"`
	Cast            []string `json:"cast"`
	BoxOfficeUSD    int64    `json:"box_office_usd"`
	Description     string   `json:"description"`
}

type Rating struct {
	IMDB float64 `json:"imdb"`
}

// Bookmark is the persisted bookmark record, keyed by movie id.
// Multi-valued fields are stored comma-joined.
type Bookmark struct {
	ID          string
	Title       string
	ReleaseDate string
	Rating      string
	Poster      *string
	Description *string
	Genre       *string
	Director    *string
	Cast        *string
}

// Movie is the display-ready shape shared by every screen. Dates and
// ratings are already formatted strings.
type Movie struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"releaseDate"`
	Rating      string  `json:"rating"`
	Poster      *string `json:"poster,omitempty"`
	Description *string `json:"description,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Director    *string `json:"director,omitempty"`
	Cast        *string `json:"cast,omitempty"`
}

// BookmarkBatch is one emission of a live bookmark table read. Err is set
// when that particular read failed; the stream itself keeps going.
type BookmarkBatch struct {
	Bookmarks []Bookmark
	Err       error
}
