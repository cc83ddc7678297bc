package mcp

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"demandcast/internal/pipeline"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxDatasets bounds the number of parsed inputs held at once.
const MaxDatasets = 16

// Dataset is one parsed input kept for follow-up tool calls.
type Dataset struct {
	ID       string
	Session  *pipeline.Session
	LoadedAt time.Time
}

// DatasetInfo is the listing form of a Dataset.
type DatasetInfo struct {
	ID       string    `json:"dataset_id"`
	Source   string    `json:"source"`
	Rows     int       `json:"rows"`
	LoadedAt time.Time `json:"loaded_at"`
}

// DatasetNotFoundError is returned for ids that were never loaded, were dropped or were evicted.
type DatasetNotFoundError struct {
	ID string
}

func (e *DatasetNotFoundError) Error() string {
	return fmt.Sprintf("dataset %q not found; load it again with dataset_load", e.ID)
}

// DatasetStore provides thread-safe, in-memory storage for parsed inputs.
// Nothing is written to disk.
type DatasetStore struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
	now      func() time.Time
}

// NewDatasetStore creates a new empty DatasetStore.
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{
		datasets: make(map[string]*Dataset),
		now:      time.Now,
	}
}

// Put stores a session under a fresh id, evicting the oldest dataset when full.
func (s *DatasetStore) Put(session *pipeline.Session) *Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.datasets) >= MaxDatasets {
		var oldest *Dataset
		for _, d := range s.datasets {
			if oldest == nil || d.LoadedAt.Before(oldest.LoadedAt) {
				oldest = d
			}
		}
		delete(s.datasets, oldest.ID)
		log.Info().Str("dataset", oldest.ID).Str("source", oldest.Session.Source()).Msg("Evicted oldest dataset")
	}

	d := &Dataset{ID: uuid.NewString(), Session: session, LoadedAt: s.now()}
	s.datasets[d.ID] = d
	return d
}

// Get returns the dataset stored under id.
func (s *DatasetStore) Get(id string) (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.datasets[id]
	if !ok {
		return nil, &DatasetNotFoundError{ID: id}
	}
	return d, nil
}

// Drop removes id and reports whether it was present.
func (s *DatasetStore) Drop(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.datasets[id]
	delete(s.datasets, id)
	return ok
}

// List returns the stored datasets, oldest first.
func (s *DatasetStore) List() []DatasetInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]DatasetInfo, 0, len(s.datasets))
	for _, d := range s.datasets {
		out = append(out, DatasetInfo{ID: d.ID, Source: d.Session.Source(), Rows: d.Session.RowCount(), LoadedAt: d.LoadedAt})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LoadedAt.Before(out[j].LoadedAt)
	})
	return out
}

// Count returns the number of stored datasets.
func (s *DatasetStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets)
}
