package movielist_test

import (
	"context"
	"errors"
	"testing"

	"moviebook/movie"
	"moviebook/movielist"
	"moviebook/uistate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) GetMovies(ctx context.Context) ([]movie.Movie, error) {
	args := m.Called(ctx)
	return args.Get(0).([]movie.Movie), args.Error(1)
}

func (m *MockService) IsBookmarked(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockService) Bookmark(ctx context.Context, mv movie.Movie) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

func (m *MockService) RemoveBookmark(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func catalog() []movie.Movie {
	return []movie.Movie{
		{ID: "a", Title: "Alpha", Rating: "5.0", ReleaseDate: "2023-03-01"},
		{ID: "b", Title: "Beta", Rating: "9.0", ReleaseDate: "2023-01-01"},
		{ID: "g", Title: "Gamma", Rating: "7.0", ReleaseDate: "2023-02-01"},
	}
}

func titles(movies []movie.Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.Title
	}
	return out
}

func loadedViewState(t *testing.T) (*movielist.ViewState, *MockService) {
	t.Helper()
	svc := new(MockService)
	svc.On("GetMovies", mock.Anything).Return(catalog(), nil).Once()
	svc.On("IsBookmarked", mock.Anything, "a").Return(false, nil).Once()
	svc.On("IsBookmarked", mock.Anything, "b").Return(true, nil).Once()
	svc.On("IsBookmarked", mock.Anything, "g").Return(false, nil).Once()

	v := movielist.New(svc)
	v.FetchData(context.Background())
	require.True(t, v.Snapshot().State.IsSuccess())
	return v, svc
}

func TestViewState_InitialState(t *testing.T) {
	v := movielist.New(new(MockService))

	s := v.Snapshot()
	assert.Equal(t, uistate.Loading(), s.State)
	assert.Empty(t, s.Movies)
	assert.Equal(t, movielist.SortByTitle, s.Sort)
}

func TestViewState_FetchData(t *testing.T) {
	t.Run("loads movies and bookmark flags", func(t *testing.T) {
		v, svc := loadedViewState(t)

		s := v.Snapshot()
		assert.Equal(t, uistate.Success(), s.State)
		assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, titles(s.Movies))
		assert.Equal(t, map[string]bool{"a": false, "b": true, "g": false}, s.Bookmarks)
		svc.AssertExpectations(t)
	})

	t.Run("empty catalog is an error", func(t *testing.T) {
		svc := new(MockService)
		svc.On("GetMovies", mock.Anything).Return([]movie.Movie{}, nil).Once()
		v := movielist.New(svc)

		v.FetchData(context.Background())

		assert.Equal(t, uistate.Error("Something went wrong"), v.Snapshot().State)
		svc.AssertNotCalled(t, "IsBookmarked", mock.Anything, mock.Anything)
	})

	t.Run("failed fetch clears the list", func(t *testing.T) {
		v, svc := loadedViewState(t)
		svc.On("GetMovies", mock.Anything).Return([]movie.Movie(nil), errors.New("catalog offline")).Once()

		v.FetchData(context.Background())

		s := v.Snapshot()
		assert.Equal(t, uistate.Error("catalog offline"), s.State)
		assert.Empty(t, s.Movies)
	})

	t.Run("failure without message uses the fallback", func(t *testing.T) {
		svc := new(MockService)
		svc.On("GetMovies", mock.Anything).Return([]movie.Movie(nil), errors.New("")).Once()
		v := movielist.New(svc)

		v.FetchData(context.Background())

		assert.Equal(t, uistate.Error("Unknown error"), v.Snapshot().State)
	})

	t.Run("a new fetch supersedes the one in flight", func(t *testing.T) {
		svc := new(MockService)
		started := make(chan struct{})
		svc.On("GetMovies", mock.Anything).Run(func(args mock.Arguments) {
			close(started)
			<-args.Get(0).(context.Context).Done()
		}).Return([]movie.Movie{{ID: "old", Title: "Stale"}}, nil).Once()
		svc.On("GetMovies", mock.Anything).Return([]movie.Movie{{ID: "new", Title: "Fresh"}}, nil).Once()
		svc.On("IsBookmarked", mock.Anything, "new").Return(true, nil).Once()
		v := movielist.New(svc)

		done := make(chan struct{})
		go func() {
			defer close(done)
			v.FetchData(context.Background())
		}()
		<-started
		v.FetchData(context.Background())
		<-done

		s := v.Snapshot()
		assert.Equal(t, uistate.Success(), s.State)
		assert.Equal(t, []string{"Fresh"}, titles(s.Movies))
		assert.Equal(t, map[string]bool{"new": true}, s.Bookmarks)
		svc.AssertNotCalled(t, "IsBookmarked", mock.Anything, "old")
	})
}

func TestViewState_SortAndFilter(t *testing.T) {
	v, _ := loadedViewState(t)

	v.UpdateSortOption(movielist.SortByRating)
	assert.Equal(t, []string{"Beta", "Gamma", "Alpha"}, titles(v.Snapshot().Movies))

	v.UpdateSortOption(movielist.SortByReleaseDate)
	assert.Equal(t, []string{"Beta", "Gamma", "Alpha"}, titles(v.Snapshot().Movies))

	v.UpdateSortOption(movielist.SortByTitle)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, titles(v.Snapshot().Movies))

	v.UpdateSearchQuery("ga")
	s := v.Snapshot()
	assert.Equal(t, "ga", s.Query)
	assert.Equal(t, []string{"Gamma"}, titles(s.Movies))

	v.UpdateSearchQuery("   ")
	assert.Len(t, v.Snapshot().Movies, 3)
}

func TestViewState_ToggleBookmark(t *testing.T) {
	t.Run("bookmarks an unbookmarked movie", func(t *testing.T) {
		v, svc := loadedViewState(t)
		alpha := catalog()[0]
		svc.On("Bookmark", mock.Anything, alpha).Return(nil).Once()

		require.NoError(t, v.ToggleBookmark(context.Background(), alpha))

		assert.True(t, v.IsBookmarked("a"))
		svc.AssertExpectations(t)
	})

	t.Run("removes an existing bookmark", func(t *testing.T) {
		v, svc := loadedViewState(t)
		beta := catalog()[1]
		svc.On("RemoveBookmark", mock.Anything, "b").Return(nil).Once()

		require.NoError(t, v.ToggleBookmark(context.Background(), beta))

		assert.False(t, v.IsBookmarked("b"))
		svc.AssertExpectations(t)
	})

	t.Run("unknown movie counts as not bookmarked", func(t *testing.T) {
		v, svc := loadedViewState(t)
		extra := movie.Movie{ID: "x", Title: "Extra"}
		svc.On("Bookmark", mock.Anything, extra).Return(nil).Once()

		require.NoError(t, v.ToggleBookmark(context.Background(), extra))

		assert.True(t, v.IsBookmarked("x"))
	})

	t.Run("flag flips even when the write fails", func(t *testing.T) {
		v, svc := loadedViewState(t)
		alpha := catalog()[0]
		svc.On("Bookmark", mock.Anything, alpha).Return(errors.New("read-only store")).Once()

		err := v.ToggleBookmark(context.Background(), alpha)

		assert.Error(t, err)
		assert.True(t, v.IsBookmarked("a"))
	})

	t.Run("snapshots are not affected by later toggles", func(t *testing.T) {
		v, svc := loadedViewState(t)
		alpha := catalog()[0]
		svc.On("Bookmark", mock.Anything, alpha).Return(nil).Once()
		before := v.Snapshot()

		require.NoError(t, v.ToggleBookmark(context.Background(), alpha))

		assert.False(t, before.Bookmarks["a"])
		assert.True(t, v.Snapshot().Bookmarks["a"])
	})
}
