package usecase

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ch1kkapo0m/scraping-auto/internal/core/domain"
)

// fakePage описывает ответ каталога для одной страницы.
type fakePage struct {
	links   []string
	hasMore bool
	err     error
}

type fakeFetcher struct {
	mu          sync.Mutex
	pages       []fakePage
	pagesCalled []int

	detailsByURL map[string]*domain.CarRecord
	tokenByURL   map[string]domain.PhoneToken
	detailsErr   map[string]error
}

func (f *fakeFetcher) FetchLinks(_ context.Context, page int) ([]string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pagesCalled = append(f.pagesCalled, page)

	if page >= len(f.pages) {
		return nil, false, nil
	}
	p := f.pages[page]
	return p.links, p.hasMore, p.err
}

func (f *fakeFetcher) FetchCarDetails(_ context.Context, carURL string) (*domain.CarRecord, domain.PhoneToken, error) {
	if err, ok := f.detailsErr[carURL]; ok {
		return nil, domain.PhoneToken{}, err
	}
	record, ok := f.detailsByURL[carURL]
	if !ok {
		record = &domain.CarRecord{URL: carURL}
	}
	clone := *record
	return &clone, f.tokenByURL[carURL], nil
}

type fakeStorage struct {
	mu    sync.Mutex
	known map[string]struct{}

	filterErr error
	saveErr   map[string]error

	saved   []domain.CarRecord
	records []domain.CarRecord
	listErr error
}

func (s *fakeStorage) FilterKnown(_ context.Context, urls []string) (map[string]struct{}, error) {
	if s.filterErr != nil {
		return nil, s.filterErr
	}
	result := make(map[string]struct{})
	for _, u := range urls {
		if _, ok := s.known[u]; ok {
			result[u] = struct{}{}
		}
	}
	return result, nil
}

func (s *fakeStorage) Save(_ context.Context, record domain.CarRecord) error {
	if err, ok := s.saveErr[record.URL]; ok {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, record)
	return nil
}

func (s *fakeStorage) SaveOverwrite(ctx context.Context, record domain.CarRecord) error {
	return s.Save(ctx, record)
}

func (s *fakeStorage) CountCars(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.saved)), nil
}

func (s *fakeStorage) ListAll(_ context.Context) ([]domain.CarRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.records, nil
}

// fakeProcessor отслеживает параллелизм обработки ссылок.
type fakeProcessor struct {
	mu        sync.Mutex
	processed []string
	errByURL  map[string]error

	inFlight    atomic.Int64
	maxInFlight atomic.Int64

	barrier chan struct{} // если задан, задача ждет закрытия канала
}

func (p *fakeProcessor) Execute(_ context.Context, carURL string) error {
	current := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)

	// фиксируем пик параллелизма
	for {
		peak := p.maxInFlight.Load()
		if current <= peak || p.maxInFlight.CompareAndSwap(peak, current) {
			break
		}
	}

	if p.barrier != nil {
		<-p.barrier
	}

	p.mu.Lock()
	p.processed = append(p.processed, carURL)
	p.mu.Unlock()

	if err, ok := p.errByURL[carURL]; ok {
		return err
	}
	return nil
}

type fakeResolver struct {
	phone *string
	calls atomic.Int32
}

func (r *fakeResolver) Resolve(_ context.Context, _ domain.PhoneToken) *string {
	r.calls.Add(1)
	return r.phone
}

type fakeDumpWriter struct {
	path     string
	err      error
	received []domain.CarRecord
}

func (w *fakeDumpWriter) Write(_ context.Context, records []domain.CarRecord) (string, error) {
	w.received = records
	if w.err != nil {
		return "", w.err
	}
	return w.path, nil
}
