package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/pagewalk"
	"github.com/fwojciec/pagewalk/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_Store(t *testing.T) {
	t.Parallel()

	t.Run("persists a batch with pages and records", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		sink := sqlite.NewSink(db)
		ctx := context.Background()

		batch := []*pagewalk.PageResult{
			{
				Page:    1,
				URL:     "https://example.com/page/1",
				RawSize: 1024,
				Records: []pagewalk.Record{
					pagewalk.NewRecord("link", map[string]string{"href": "/a"}),
					pagewalk.NewRecord("link", map[string]string{"href": "/b"}),
				},
				Success:   true,
				FetchedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			},
			{
				Page:      2,
				URL:       "https://example.com/page/2",
				Success:   false,
				FetchedAt: time.Date(2024, 3, 1, 12, 0, 5, 0, time.UTC),
			},
		}

		require.NoError(t, sink.Store(ctx, batch, "batch_1"))

		var pageCount, recordCount int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages").Scan(&pageCount))
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&recordCount))
		assert.Equal(t, 2, pageCount)
		assert.Equal(t, 2, recordCount)

		var url string
		var success bool
		err := db.QueryRowContext(ctx, "SELECT url, success FROM pages WHERE page = 2").Scan(&url, &success)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/page/2", url)
		assert.False(t, success)
	})

	t.Run("stores record fields as json", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		sink := sqlite.NewSink(db)
		ctx := context.Background()

		rec := pagewalk.NewRecord("article", map[string]string{"title": "Hello"})
		batch := []*pagewalk.PageResult{{Page: 1, Records: []pagewalk.Record{rec}, FetchedAt: time.Now()}}
		require.NoError(t, sink.Store(ctx, batch, "final"))

		var kind, hash, fields string
		err := db.QueryRowContext(ctx, "SELECT kind, hash, fields FROM records").Scan(&kind, &hash, &fields)
		require.NoError(t, err)
		assert.Equal(t, "article", kind)
		assert.Equal(t, rec.Hash, hash)
		assert.JSONEq(t, `{"title":"Hello"}`, fields)
	})

	t.Run("stores an empty batch as a batch row", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		sink := sqlite.NewSink(db)
		ctx := context.Background()

		require.NoError(t, sink.Store(ctx, nil, "final"))

		var count int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM batches").Scan(&count))
		assert.Equal(t, 1, count)
	})
}

func TestSink_FindRecords(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T) (*sqlite.Sink, pagewalk.Record) {
		t.Helper()

		db := mustOpenDB(t)
		sink := sqlite.NewSink(db)

		article := pagewalk.NewRecord("article", map[string]string{"title": "Hello"})
		batch := []*pagewalk.PageResult{
			{Page: 1, URL: "https://example.com/p/1", Records: []pagewalk.Record{
				pagewalk.NewRecord("link", map[string]string{"href": "/a"}),
				article,
			}, FetchedAt: time.Now()},
			{Page: 2, URL: "https://example.com/p/2", Records: []pagewalk.Record{
				pagewalk.NewRecord("link", map[string]string{"href": "/b"}),
			}, FetchedAt: time.Now()},
		}
		require.NoError(t, sink.Store(context.Background(), batch, "batch_1"))
		return sink, article
	}

	t.Run("filters by kind", func(t *testing.T) {
		t.Parallel()

		sink, _ := seed(t)
		kind := "link"

		records, err := sink.FindRecords(context.Background(), sqlite.RecordFilter{Kind: &kind})
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "/a", records[0].Fields["href"])
		assert.Equal(t, 1, records[0].Page)
		assert.Equal(t, "/b", records[1].Fields["href"])
		assert.Equal(t, 2, records[1].Page)
	})

	t.Run("filters by hash", func(t *testing.T) {
		t.Parallel()

		sink, article := seed(t)

		records, err := sink.FindRecords(context.Background(), sqlite.RecordFilter{Hash: &article.Hash})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "article", records[0].Kind)
		assert.Equal(t, "Hello", records[0].Fields["title"])
		assert.Equal(t, "https://example.com/p/1", records[0].URL)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		sink, _ := seed(t)
		kind := "link"

		records, err := sink.FindRecords(context.Background(), sqlite.RecordFilter{
			Kind:   &kind,
			Limit:  1,
			Offset: 1,
		})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "/b", records[0].Fields["href"])
	})

	t.Run("returns everything with an empty filter", func(t *testing.T) {
		t.Parallel()

		sink, _ := seed(t)

		records, err := sink.FindRecords(context.Background(), sqlite.RecordFilter{})
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})
}

func TestSink_ListBatches(t *testing.T) {
	t.Parallel()

	t.Run("returns batches in insertion order with counts", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		sink := sqlite.NewSink(db)
		ctx := context.Background()

		first := []*pagewalk.PageResult{
			{Page: 1, Records: []pagewalk.Record{pagewalk.NewRecord("item", map[string]string{"id": "1"})}, FetchedAt: time.Now()},
			{Page: 2, FetchedAt: time.Now()},
		}
		second := []*pagewalk.PageResult{
			{Page: 3, Records: []pagewalk.Record{
				pagewalk.NewRecord("item", map[string]string{"id": "2"}),
				pagewalk.NewRecord("item", map[string]string{"id": "3"}),
			}, FetchedAt: time.Now()},
		}

		require.NoError(t, sink.Store(ctx, first, "batch_1"))
		require.NoError(t, sink.Store(ctx, second, "final"))

		batches, err := sink.ListBatches(ctx)
		require.NoError(t, err)
		require.Len(t, batches, 2)

		assert.Equal(t, "batch_1", batches[0].Label)
		assert.Equal(t, 2, batches[0].Pages)
		assert.Equal(t, 1, batches[0].Records)
		assert.False(t, batches[0].StoredAt.IsZero())

		assert.Equal(t, "final", batches[1].Label)
		assert.Equal(t, 1, batches[1].Pages)
		assert.Equal(t, 2, batches[1].Records)
	})

	t.Run("returns no batches for an empty database", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		sink := sqlite.NewSink(db)

		batches, err := sink.ListBatches(context.Background())
		require.NoError(t, err)
		assert.Empty(t, batches)
	})
}
