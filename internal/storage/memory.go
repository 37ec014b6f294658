package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and ephemeral runs. Rows
// are copied in and out, so callers never share memory with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	sites   map[string]SiteRow
	builds  map[string]BuildRow
	bundles []BundleRow
	events  []memoryEvent

	// FailSaveBundle, when set, is returned by SaveBundle. Lets tests
	// exercise persist-stage failure paths.
	FailSaveBundle error
}

type memoryEvent struct {
	BuildID string
	Type    string
	Payload []byte
	At      time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sites:  map[string]SiteRow{},
		builds: map[string]BuildRow{},
	}
}

func (s *MemoryStore) CreateSite(_ context.Context, site SiteRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sites[site.ID] = site
	return nil
}

func (s *MemoryStore) GetSite(_ context.Context, siteID string) (*SiteRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.sites[siteID]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (s *MemoryStore) UpdateSite(_ context.Context, site SiteRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.sites[site.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Status = site.Status
	existing.UpdatedAt = site.UpdatedAt
	s.sites[site.ID] = existing
	return nil
}

func (s *MemoryStore) CreateBuild(_ context.Context, build BuildRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builds[build.ID] = build
	return nil
}

func (s *MemoryStore) GetBuild(_ context.Context, buildID string) (*BuildRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.builds[buildID]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (s *MemoryStore) UpdateBuild(_ context.Context, build BuildRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.builds[build.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Status = build.Status
	existing.Warnings = build.Warnings
	existing.Errors = build.Errors
	existing.FinishedAt = build.FinishedAt
	s.builds[build.ID] = existing
	return nil
}

func (s *MemoryStore) SaveBundle(_ context.Context, row BundleRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSaveBundle != nil {
		return s.FailSaveBundle
	}
	s.bundles = append(s.bundles, row)
	return nil
}

func (s *MemoryStore) GetBundle(_ context.Context, siteID, buildID string) (*BundleRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.bundles) - 1; i >= 0; i-- {
		if s.bundles[i].SiteID == siteID && s.bundles[i].BuildID == buildID {
			row := s.bundles[i]
			return &row, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetLatestBundle(_ context.Context, siteID string) (*BundleRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.bundles) - 1; i >= 0; i-- {
		if s.bundles[i].SiteID == siteID {
			row := s.bundles[i]
			return &row, nil
		}
	}
	return nil, ErrNotFound
}

// AppendBuildEvent records one build lifecycle event.
func (s *MemoryStore) AppendBuildEvent(_ context.Context, buildID, eventType string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, memoryEvent{BuildID: buildID, Type: eventType, Payload: payload, At: time.Now()})
	return nil
}

// EventCount reports how many events were appended for a build.
func (s *MemoryStore) EventCount(buildID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.events {
		if e.BuildID == buildID {
			n++
		}
	}
	return n
}
