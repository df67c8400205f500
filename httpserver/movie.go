package httpserver

import (
	"context"
	"net/http"

	"moviebook/errs"
	"moviebook/movie"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterMovieRoutes(g *echo.Group) {
	g.GET("/movies", s.handleListMovies)
	g.GET("/movies/:id", s.handleGetMovie)
}

func (s *Server) RegisterBookmarkRoutes(g *echo.Group) {
	g.GET("/bookmarks", s.handleListBookmarks)
	g.GET("/bookmarks/stream", s.handleBookmarkStream)
	g.GET("/bookmarks/:id", s.handleIsBookmarked)
	g.PUT("/bookmarks/:id", s.handleBookmark)
	g.DELETE("/bookmarks/:id", s.handleRemoveBookmark)
}

// handleListMovies godoc
// @Summary List Movies
// @Description List the catalog. An unreachable catalog yields an empty list.
// @Tags movies
// @Produce json
// @Success 200 {array} movie.Movie
// @Router /api/movies [get]
func (s *Server) handleListMovies(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	movies, err := svc.GetMovies(c.Request().Context())
	if err != nil {
		return err
	}

	return writeList(c, http.StatusOK, movies)
}

// handleGetMovie godoc
// @Summary Get Movie
// @Tags movies
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} movie.Movie
// @Failure 404 {object} APIResponse
// @Router /api/movies/{id} [get]
func (s *Server) handleGetMovie(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	m, err := svc.GetMovieDetails(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if m == nil {
		return movie.ErrMovieNotFound
	}

	return writeSuccess(c, http.StatusOK, m)
}

func (s *Server) handleListBookmarks(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	movies, ok := <-svc.ObserveBookmarkedMovies(ctx)
	if !ok {
		return errs.Errorf(errs.EUNAVAILABLE, "bookmark stream closed")
	}

	return writeList(c, http.StatusOK, movies)
}

func (s *Server) handleIsBookmarked(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	bookmarked, err := svc.IsBookmarked(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, map[string]bool{"bookmarked": bookmarked})
}

// handleBookmark godoc
// @Summary Bookmark Movie
// @Description Store or replace the bookmark of a movie.
// @Tags bookmarks
// @Accept json
// @Param id path string true "Movie ID"
// @Param body body BookmarkRequest true "Movie"
// @Success 204
// @Failure 400 {object} APIResponse
// @Router /api/bookmarks/{id} [put]
func (s *Server) handleBookmark(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	var req BookmarkRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return errs.Errorf(errs.EINVALID, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	if err := svc.Bookmark(c.Request().Context(), req.ToMovie(c.Param("id"))); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleRemoveBookmark(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	if err := svc.RemoveBookmark(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) movieService() (movie.Service, error) {
	if s.MovieService == nil {
		return nil, errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
	}
	return s.MovieService, nil
}
