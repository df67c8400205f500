package postgres

import (
	"context"
	"fmt"
	"time"

	"moviebook/movie"
	"moviebook/pkg/broadcast"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookmarkModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Title        string    `gorm:"column:title;not null"`
	ReleaseDate  string    `gorm:"column:release_date;not null"`
	Rating       string    `gorm:"column:rating;not null"`
	Poster       *string   `gorm:"column:poster"`
	Description  *string   `gorm:"column:description"`
	Genre        *string   `gorm:"column:genre"`
	Director     *string   `gorm:"column:director"`
	Cast         *string   `gorm:"column:cast"`
	BookmarkedAt time.Time `gorm:"column:bookmarked_at;not null"`
}

func (BookmarkModel) TableName() string {
	return "bookmarked_movies"
}

// BookmarkRepository stores bookmarks in the bookmarked_movies table.
// Snapshots are ordered by the time each bookmark was last written.
type BookmarkRepository struct {
	db  *gorm.DB
	hub *broadcast.Hub
	now func() time.Time
}

func NewBookmarkRepository(db *gorm.DB) *BookmarkRepository {
	return &BookmarkRepository{
		db:  db,
		hub: broadcast.New(),
		now: time.Now,
	}
}

// Changes is the hub signalled after every write.
func (r *BookmarkRepository) Changes() *broadcast.Hub {
	return r.hub
}

func (r *BookmarkRepository) WatchAll(ctx context.Context) <-chan movie.BookmarkBatch {
	return broadcast.Watch(ctx, r.hub, func(ctx context.Context) movie.BookmarkBatch {
		bookmarks, err := r.all(ctx)
		return movie.BookmarkBatch{Bookmarks: bookmarks, Err: err}
	})
}

func (r *BookmarkRepository) Upsert(ctx context.Context, b movie.Bookmark) error {
	model := toModel(b)
	model.BookmarkedAt = r.now().UTC()

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&model).Error
	if err != nil {
		return fmt.Errorf("postgres: upsert bookmark %s: %w", b.ID, err)
	}

	r.hub.Notify()
	return nil
}

func (r *BookmarkRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&BookmarkModel{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("postgres: check bookmark %s: %w", id, err)
	}
	return count > 0, nil
}

func (r *BookmarkRepository) DeleteByID(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&BookmarkModel{})
	if res.Error != nil {
		return fmt.Errorf("postgres: delete bookmark %s: %w", id, res.Error)
	}

	if res.RowsAffected > 0 {
		r.hub.Notify()
	}
	return nil
}

func (r *BookmarkRepository) all(ctx context.Context) ([]movie.Bookmark, error) {
	var models []BookmarkModel
	err := r.db.WithContext(ctx).
		Order("bookmarked_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("postgres: list bookmarks: %w", err)
	}

	out := make([]movie.Bookmark, 0, len(models))
	for _, m := range models {
		out = append(out, m.toBookmark())
	}
	return out, nil
}

func toModel(b movie.Bookmark) BookmarkModel {
	return BookmarkModel{
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

func (m BookmarkModel) toBookmark() movie.Bookmark {
	return movie.Bookmark{
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
