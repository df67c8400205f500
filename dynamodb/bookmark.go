package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"moviebook/movie"
	"moviebook/pkg/broadcast"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// API is the subset of the DynamoDB client the bookmark repository calls.
type API interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	dynamodb.ScanAPIClient
}

type BookmarkRepository struct {
	client API
	table  string
	hub    *broadcast.Hub
	now    func() time.Time
}

type bookmarkItem struct {
	ID           string  `dynamodbav:"id"`
	Title        string  `dynamodbav:"title"`
	ReleaseDate  string  `dynamodbav:"release_date"`
	Rating       string  `dynamodbav:"rating"`
	Poster       *string `dynamodbav:"poster,omitempty"`
	Description  *string `dynamodbav:"description,omitempty"`
	Genre        *string `dynamodbav:"genre,omitempty"`
	Director     *string `dynamodbav:"director,omitempty"`
	Cast         *string `dynamodbav:"cast,omitempty"`
	BookmarkedAt int64   `dynamodbav:"bookmarked_at"`
}

func NewBookmarkRepository(client API, table string) *BookmarkRepository {
	return &BookmarkRepository{
		client: client,
		table:  table,
		hub:    broadcast.New(),
		now:    time.Now,
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
	if err := validateTable(r.table); err != nil {
		return err
	}

	item := bookmarkItem{
		ID:           b.ID,
		Title:        b.Title,
		ReleaseDate:  b.ReleaseDate,
		Rating:       b.Rating,
		Poster:       b.Poster,
		Description:  b.Description,
		Genre:        b.Genre,
		Director:     b.Director,
		Cast:         b.Cast,
		BookmarkedAt: r.now().UnixNano(),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamodb: marshal bookmark: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.table,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("dynamodb: put bookmark: %w", err)
	}

	r.hub.Notify()
	return nil
}

func (r *BookmarkRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	if err := validateTable(r.table); err != nil {
		return false, err
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            &r.table,
		Key:                  key(id),
		ProjectionExpression: aws.String("id"),
	})
	if err != nil {
		return false, fmt.Errorf("dynamodb: get bookmark: %w", err)
	}
	return len(out.Item) > 0, nil
}

func (r *BookmarkRepository) DeleteByID(ctx context.Context, id string) error {
	if err := validateTable(r.table); err != nil {
		return err
	}

	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    &r.table,
		Key:          key(id),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return fmt.Errorf("dynamodb: delete bookmark: %w", err)
	}

	if len(out.Attributes) > 0 {
		r.hub.Notify()
	}
	return nil
}

func (r *BookmarkRepository) all(ctx context.Context) ([]movie.Bookmark, error) {
	if err := validateTable(r.table); err != nil {
		return nil, err
	}

	var items []bookmarkItem
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: &r.table,
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: scan bookmarks: %w", err)
		}

		var page []bookmarkItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("dynamodb: unmarshal bookmarks: %w", err)
		}
		items = append(items, page...)
	}

	// Scan order is unspecified.
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].BookmarkedAt != items[j].BookmarkedAt {
			return items[i].BookmarkedAt < items[j].BookmarkedAt
		}
		return items[i].ID < items[j].ID
	})

	bookmarks := make([]movie.Bookmark, 0, len(items))
	for _, item := range items {
		bookmarks = append(bookmarks, movie.Bookmark{
			ID:          item.ID,
			Title:       item.Title,
			ReleaseDate: item.ReleaseDate,
			Rating:      item.Rating,
			Poster:      item.Poster,
			Description: item.Description,
			Genre:       item.Genre,
			Director:    item.Director,
			Cast:        item.Cast,
		})
	}
	return bookmarks, nil
}

func key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}
