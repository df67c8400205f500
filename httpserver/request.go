package httpserver

import (
	"strings"

	"moviebook/movie"
)

type BookmarkRequest struct {
	// ID is ignored; the path parameter names the movie.
	ID          string  `json:"id"`
	Title       string  `json:"title" validate:"required,notblank,max=500"`
	ReleaseDate string  `json:"releaseDate" validate:"omitempty,datetime=2006-01-02"`
	Rating      string  `json:"rating" validate:"omitempty,numeric"`
	Poster      *string `json:"poster" validate:"omitempty,url"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Genre       *string `json:"genre" validate:"omitempty,max=500"`
	Director    *string `json:"director" validate:"omitempty,max=500"`
	Cast        *string `json:"cast" validate:"omitempty,max=2000"`
}

func (r BookmarkRequest) ToMovie(id string) movie.Movie {
	return movie.Movie{
		ID:          id,
		Title:       strings.TrimSpace(r.Title),
		ReleaseDate: r.ReleaseDate,
		Rating:      r.Rating,
		Poster:      r.Poster,
		Description: r.Description,
		Genre:       r.Genre,
		Director:    r.Director,
		Cast:        r.Cast,
	}
}

type ScreenListRequest struct {
	Query string `query:"q"`
	Sort  string `query:"sort"`
}

// StreamCommand is a message sent by a websocket client.
type StreamCommand struct {
	Remove string `json:"remove"`
}
