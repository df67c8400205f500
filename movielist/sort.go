package movielist

import (
	"cmp"
	"slices"
	"strings"

	"moviebook/errs"
	"moviebook/movie"
)

var ErrInvalidSortOption = errs.Errorf(errs.EINVALID, "movielist: invalid sort option")

type SortOption int

const (
	SortByTitle SortOption = iota
	SortByReleaseDate
	SortByRating
)

func (o SortOption) String() string {
	switch o {
	case SortByTitle:
		return "title"
	case SortByReleaseDate:
		return "release_date"
	case SortByRating:
		return "rating"
	}
	return "unknown"
}

func (o SortOption) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// ParseSortOption accepts the String form, case-insensitively. An empty
// string selects SortByTitle.
func ParseSortOption(s string) (SortOption, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "title":
		return SortByTitle, nil
	case "release_date":
		return SortByReleaseDate, nil
	case "rating":
		return SortByRating, nil
	}
	return SortByTitle, ErrInvalidSortOption
}

// Visible filters movies by a case-insensitive title match on query and
// orders the result by opt. The input is never modified.
func Visible(movies []movie.Movie, query string, opt SortOption) []movie.Movie {
	out := make([]movie.Movie, 0, len(movies))
	if strings.TrimSpace(query) == "" {
		out = append(out, movies...)
	} else {
		needle := strings.ToLower(query)
		for _, m := range movies {
			if strings.Contains(strings.ToLower(m.Title), needle) {
				out = append(out, m)
			}
		}
	}

	switch opt {
	case SortByTitle:
		slices.SortStableFunc(out, func(a, b movie.Movie) int {
			return strings.Compare(a.Title, b.Title)
		})
	case SortByReleaseDate:
		slices.SortStableFunc(out, func(a, b movie.Movie) int {
			return strings.Compare(a.ReleaseDate, b.ReleaseDate)
		})
	case SortByRating:
		slices.SortStableFunc(out, func(a, b movie.Movie) int {
			return cmp.Compare(movie.ParseRating(b.Rating), movie.ParseRating(a.Rating))
		})
	}
	return out
}
