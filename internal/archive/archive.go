// Package archive persists finished reports as opaque blobs.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ppiankov/originscan/internal/model"
)

// ErrNotFound is returned by Load for unknown ids
var ErrNotFound = errors.New("report not found")

// Store persists and retrieves opaque blobs by id
type Store interface {
	Save(ctx context.Context, id string, blob []byte) error
	Load(ctx context.Context, id string) ([]byte, error)
	Close() error
}

// Open builds the store described by cfg
func Open(cfg model.ArchiveConfig) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "memory", "":
		return NewMemoryStore(), nil
	case "sqlite":
		return OpenSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown archive driver: %s (supported: memory, sqlite)", cfg.Driver)
	}
}

// SaveReport stores report as JSON under its id
func SaveReport(ctx context.Context, s Store, report *model.Report) error {
	if report.ID == "" {
		return errors.New("report has no id")
	}
	blob, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return s.Save(ctx, report.ID, blob)
}

// LoadReport fetches and decodes the report stored under id
func LoadReport(ctx context.Context, s Store, id string) (*model.Report, error) {
	blob, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	var report model.Report
	if err := json.Unmarshal(blob, &report); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", id, err)
	}
	return &report, nil
}

// MemoryStore keeps blobs in process memory
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Save stores a copy of blob
func (m *MemoryStore) Save(ctx context.Context, id string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[id] = append([]byte(nil), blob...)
	return nil
}

// Load returns a copy of the blob stored under id
func (m *MemoryStore) Load(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	blob, ok := m.blobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), blob...), nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}
