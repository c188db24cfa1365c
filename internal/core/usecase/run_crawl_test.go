package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCrawlStopsOnEmptyPage(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: []fakePage{
			{links: []string{"u1", "u2"}, hasMore: true},
			{links: nil, hasMore: false},
		},
	}
	storage := &fakeStorage{}
	processor := &fakeProcessor{}

	uc := NewRunCrawlUseCase(fetcher, storage, processor, 4)
	stats, err := uc.Execute(context.Background(), uuid.New())

	require.NoError(t, err)
	// страницы запрашиваются строго по порядку, после пустой — стоп
	assert.Equal(t, []int{0, 1}, fetcher.pagesCalled)
	assert.Equal(t, 2, stats.PagesProcessed)
	assert.Equal(t, 2, stats.LinksFound)
	assert.Equal(t, 2, stats.NewLinks)
	assert.Equal(t, 2, stats.Saved)
	assert.Equal(t, 0, stats.Failed)
	assert.False(t, stats.FinishedAt.IsZero())
}

func TestRunCrawlStopsWhenNoContinuation(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: []fakePage{
			{links: []string{"u1"}, hasMore: false},
		},
	}
	uc := NewRunCrawlUseCase(fetcher, &fakeStorage{}, &fakeProcessor{}, 4)

	stats, err := uc.Execute(context.Background(), uuid.New())

	require.NoError(t, err)
	// ссылки последней страницы обрабатываются до остановки
	assert.Equal(t, []int{0}, fetcher.pagesCalled)
	assert.Equal(t, 1, stats.Saved)
}

func TestRunCrawlDedupPreservesOrder(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: []fakePage{
			{links: []string{"a", "b", "c", "d"}, hasMore: false},
		},
	}
	storage := &fakeStorage{known: map[string]struct{}{"b": {}, "d": {}}}
	processor := &fakeProcessor{barrier: nil}

	uc := NewRunCrawlUseCase(fetcher, storage, processor, 1)
	stats, err := uc.Execute(context.Background(), uuid.New())

	require.NoError(t, err)
	// при одном воркере порядок обработки детерминирован
	assert.Equal(t, []string{"a", "c"}, processor.processed)
	assert.Equal(t, 4, stats.LinksFound)
	assert.Equal(t, 2, stats.NewLinks)
}

func TestRunCrawlCatalogErrorIsFatal(t *testing.T) {
	pageErr := errors.New("catalog down")
	fetcher := &fakeFetcher{
		pages: []fakePage{
			{links: []string{"u1"}, hasMore: true},
			{err: pageErr},
		},
	}
	processor := &fakeProcessor{}

	uc := NewRunCrawlUseCase(fetcher, &fakeStorage{}, processor, 2)
	stats, err := uc.Execute(context.Background(), uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, pageErr)
	require.NotNil(t, stats)
	// первая страница успела обработаться
	assert.Equal(t, 1, stats.Saved)
}

func TestRunCrawlTaskFailureIsIsolated(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: []fakePage{
			{links: []string{"ok1", "bad", "ok2"}, hasMore: false},
		},
	}
	processor := &fakeProcessor{
		errByURL: map[string]error{"bad": errors.New("parse failed")},
	}

	uc := NewRunCrawlUseCase(fetcher, &fakeStorage{}, processor, 3)
	stats, err := uc.Execute(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Saved)
	assert.Equal(t, 1, stats.Failed)

	sort.Strings(processor.processed)
	assert.Equal(t, []string{"bad", "ok1", "ok2"}, processor.processed)
}

func TestRunCrawlFilterErrorProcessesAll(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: []fakePage{
			{links: []string{"a", "b"}, hasMore: false},
		},
	}
	storage := &fakeStorage{
		known:     map[string]struct{}{"a": {}},
		filterErr: errors.New("db unreachable"),
	}
	processor := &fakeProcessor{}

	uc := NewRunCrawlUseCase(fetcher, storage, processor, 2)
	stats, err := uc.Execute(context.Background(), uuid.New())

	require.NoError(t, err)
	// дедупликация отвалилась — обрабатываем все ссылки, вставка безопасна
	assert.Equal(t, 2, stats.NewLinks)
	assert.Equal(t, 2, stats.Saved)
}

func TestRunCrawlRespectsWorkerLimit(t *testing.T) {
	links := make([]string, 100)
	for i := range links {
		links[i] = fmt.Sprintf("url-%d", i)
	}
	fetcher := &fakeFetcher{
		pages: []fakePage{{links: links, hasMore: false}},
	}
	processor := &fakeProcessor{}

	const limit = 7
	uc := NewRunCrawlUseCase(fetcher, &fakeStorage{}, processor, limit)
	stats, err := uc.Execute(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, 100, stats.Saved)
	assert.LessOrEqual(t, processor.maxInFlight.Load(), int64(limit))
}

func TestRunCrawlCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{
		pages: []fakePage{{links: []string{"u1"}, hasMore: true}},
	}
	uc := NewRunCrawlUseCase(fetcher, &fakeStorage{}, &fakeProcessor{}, 2)

	stats, err := uc.Execute(ctx, uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, stats.PagesProcessed)
}
