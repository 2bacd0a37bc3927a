package slog_test

import (
	"context"
	"testing"

	"github.com/fwojciec/pagewalk"
	"github.com/fwojciec/pagewalk/mock"
	pageslog "github.com/fwojciec/pagewalk/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_Store(t *testing.T) {
	t.Parallel()

	batch := []*pagewalk.PageResult{
		{Page: 1, Records: []pagewalk.Record{
			pagewalk.NewRecord("item", map[string]string{"id": "1"}),
			pagewalk.NewRecord("item", map[string]string{"id": "2"}),
		}},
		{Page: 2},
	}

	t.Run("logs successful stores at info level", func(t *testing.T) {
		t.Parallel()

		logger, buf := testLogger()
		inner := &mock.Sink{
			StoreFn: func(context.Context, []*pagewalk.PageResult, string) error { return nil },
		}

		sink := pageslog.NewSink(inner, logger)
		require.NoError(t, sink.Store(context.Background(), batch, "batch_1"))

		out := buf.String()
		assert.Contains(t, out, "level=INFO")
		assert.Contains(t, out, `msg="store batch"`)
		assert.Contains(t, out, "label=batch_1")
		assert.Contains(t, out, "pages=2")
		assert.Contains(t, out, "records=2")
	})

	t.Run("logs failed stores at error level", func(t *testing.T) {
		t.Parallel()

		logger, buf := testLogger()
		inner := &mock.Sink{
			StoreFn: func(context.Context, []*pagewalk.PageResult, string) error {
				return pagewalk.Errorf(pagewalk.EUNAVAILABLE, "disk full")
			},
		}

		sink := pageslog.NewSink(inner, logger)
		err := sink.Store(context.Background(), batch, "final")
		require.Error(t, err)

		out := buf.String()
		assert.Contains(t, out, "level=ERROR")
		assert.Contains(t, out, "label=final")
		assert.Contains(t, out, "disk full")
	})
}
