package catalogapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moviebook/catalogapi"
	"moviebook/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inceptionJSON = `{
	"id": "m-1",
	"created_at": 1700000000,
	"title": "Inception",
	"genre": ["Action", "Sci-Fi"],
	"rating": {"imdb": 8.8},
	"release_date": 1279238400000,
	"poster_url": "https://img.example.com/inception.jpg",
	"duration_minutes": 148,
	"director": "Christopher Nolan",
	"cast": ["Leonardo DiCaprio", "Elliot Page"],
	"box_office_usd": 836800000,
	"description": "Dreams within dreams."
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *catalogapi.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := catalogapi.NewClient(catalogapi.Options{
		BaseURL: srv.URL + "/v1/",
		APIKey:  "secret",
		Timeout: time.Second,
	})
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := catalogapi.NewClient(catalogapi.Options{})

	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
}

func TestClient_ListMovies(t *testing.T) {
	t.Run("decodes the wire shape", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/movies", r.URL.Path)
			assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("[" + inceptionJSON + "]"))
		})

		movies, err := c.ListMovies(context.Background())

		require.NoError(t, err)
		require.Len(t, movies, 1)
		m := movies[0]
		assert.Equal(t, "m-1", m.ID)
		assert.Equal(t, int64(1700000000), m.CreatedAt)
		assert.Equal(t, []string{"Action", "Sci-Fi"}, m.Genres)
		assert.Equal(t, 8.8, m.Rating.IMDB)
		assert.Equal(t, int64(1279238400000), m.ReleaseDate)
		assert.Equal(t, "https://img.example.com/inception.jpg", m.PosterURL)
		assert.Equal(t, int64(148), m.DurationMinutes)
		assert.Equal(t, []string{"Leonardo DiCaprio", "Elliot Page"}, m.Cast)
		assert.Equal(t, int64(836800000), m.BoxOfficeUSD)
	})

	t.Run("fails on upstream error status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		})

		_, err := c.ListMovies(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 503")
		assert.Equal(t, errs.EUNAVAILABLE, errs.ErrorCode(err))
	})

	t.Run("fails on malformed body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not": "a list"`))
		})

		_, err := c.ListMovies(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode movies")
	})
}

func TestClient_GetMovie(t *testing.T) {
	t.Run("returns the movie", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/movies/m-1", r.URL.Path)
			_, _ = w.Write([]byte(inceptionJSON))
		})

		m, err := c.GetMovie(context.Background(), "m-1")

		require.NoError(t, err)
		assert.Equal(t, "Inception", m.Title)
	})

	t.Run("escapes the id", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/movies/a%2Fb", r.URL.EscapedPath())
			_, _ = w.Write([]byte(inceptionJSON))
		})

		_, err := c.GetMovie(context.Background(), "a/b")

		require.NoError(t, err)
	})

	t.Run("404 is not found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := c.GetMovie(context.Background(), "missing")

		assert.ErrorIs(t, err, catalogapi.ErrNotFound)
	})

	t.Run("null body is not found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("null\n"))
		})

		_, err := c.GetMovie(context.Background(), "missing")

		assert.ErrorIs(t, err, catalogapi.ErrNotFound)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.GetMovie(ctx, "m-1")

		assert.ErrorIs(t, err, context.Canceled)
	})
}
