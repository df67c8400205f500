package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"moviebook/movie"
	"moviebook/pkg/config"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type apiResponse struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
	Info    string          `json:"info"`
}

func testConfig() *config.Config {
	return &config.Config{}
}

func decodeAPIResponse(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %s", rec.Body.String())
	return resp
}

func decodeAPIResult(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) GetMovies(ctx context.Context) ([]movie.Movie, error) {
	args := m.Called(ctx)
	return args.Get(0).([]movie.Movie), args.Error(1)
}

func (m *MockMovieService) GetMovieDetails(ctx context.Context, id string) (*movie.Movie, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*movie.Movie), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMovieService) IsBookmarked(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockMovieService) Bookmark(ctx context.Context, mv movie.Movie) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

func (m *MockMovieService) RemoveBookmark(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMovieService) ObserveBookmarkedMovies(ctx context.Context) <-chan []movie.Movie {
	args := m.Called(ctx)
	return args.Get(0).(chan []movie.Movie)
}

func strPtr(s string) *string {
	return &s
}
