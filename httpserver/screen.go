package httpserver

import (
	"net/http"

	"moviebook/moviedetail"
	"moviebook/movielist"

	"github.com/labstack/echo/v4"
)

// Screen routes render view-state snapshots. Each request gets a fresh view
// state, so nothing is shared between clients.
func (s *Server) RegisterScreenRoutes(g *echo.Group) {
	g.GET("/movies", s.handleMovieListScreen)
	g.GET("/movies/:id", s.handleMovieDetailScreen)
	g.POST("/movies/:id/bookmark", s.handleToggleBookmarkScreen)
}

func (s *Server) handleMovieListScreen(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	var req ScreenListRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return err
	}
	opt, err := movielist.ParseSortOption(req.Sort)
	if err != nil {
		return err
	}

	v := movielist.New(svc)
	v.UpdateSearchQuery(req.Query)
	v.UpdateSortOption(opt)
	v.FetchData(c.Request().Context())

	return writeSuccess(c, http.StatusOK, v.Snapshot())
}

func (s *Server) handleMovieDetailScreen(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	v := moviedetail.New(svc)
	v.LoadMovieDetails(c.Request().Context(), c.Param("id"))

	return writeSuccess(c, http.StatusOK, v.Snapshot())
}

func (s *Server) handleToggleBookmarkScreen(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	v := moviedetail.New(svc)
	v.LoadMovieDetails(ctx, c.Param("id"))
	if err := v.ToggleBookmark(ctx); err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, v.Snapshot())
}
