package movie

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	releaseDateLayout = "2006-01-02"
	listSeparator     = ", "
)

// FromRemote converts a catalog record into its display form.
func FromRemote(r RemoteMovie) Movie {
	return Movie{
		ID:          r.ID,
		Title:       r.Title,
		ReleaseDate: FormatReleaseDate(r.ReleaseDate),
		Rating:      FormatRating(r.Rating.IMDB),
		Poster:      stringPtr(r.PosterURL),
		Description: stringPtr(r.Description),
		Genre:       stringPtr(strings.Join(r.Genres, listSeparator)),
		Director:    stringPtr(r.Director),
		Cast:        stringPtr(strings.Join(r.Cast, listSeparator)),
	}
}

// FromBookmark converts a persisted bookmark into its display form.
func FromBookmark(b Bookmark) Movie {
	return Movie{
		ID:          b.ID,
		Title:       b.Title,
		ReleaseDate: b.ReleaseDate,
		Rating:      b.Rating,
		Poster:      b.Poster,
		Description: b.Description,
		Genre:       b.Genre,
		Director:    b.Director,
		Cast:        b.Cast,
	}
}

// ToBookmark converts a display movie into the record that gets persisted.
// Genre and cast stay joined; there is no way back to RemoteMovie.
func ToBookmark(m Movie) Bookmark {
	return Bookmark{
		ID:          m.ID,
		Title:       m.Title,
		ReleaseDate: m.ReleaseDate,
		Rating:      m.Rating,
		Poster:      m.Poster,
		Description: m.Description,
		Genre:       m.Genre,
		Director:    m.Director,
		Cast:        m.Cast,
	}
}

// FormatReleaseDate renders epoch milliseconds as a UTC calendar date.
func FormatReleaseDate(epochMillis int64) string {
	return time.UnixMilli(epochMillis).UTC().Format(releaseDateLayout)
}

// FormatRating renders a rating with the shortest exact decimal form,
// always keeping a fractional part, so 9 becomes "9.0".
func FormatRating(rating float64) string {
	s := strconv.FormatFloat(rating, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// ParseRating reads a formatted rating back; unparseable values are 0.
func ParseRating(rating string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(rating), 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return f
}

func stringPtr(s string) *string {
	return &s
}
