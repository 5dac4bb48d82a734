package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ayush-bhatt-07/klix-marketplace/internal/domain"
)

// MemoryRepository keeps the document in memory. Load and Save copy through JSON so
// callers never share state with the stored value, matching the file backend.
type MemoryRepository struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	SaveErr error
}

// NewMemoryRepository seeds the repository with doc (nil means empty).
func NewMemoryRepository(doc *domain.Document) *MemoryRepository {
	r := &MemoryRepository{}
	if doc != nil {
		doc.Normalize()
		r.data, _ = json.Marshal(doc)
	}
	return r
}

// Load implements Repository.
func (r *MemoryRepository) Load(ctx context.Context) *domain.Document {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.data) == 0 {
		return domain.NewDocument()
	}
	var doc domain.Document
	if err := json.Unmarshal(r.data, &doc); err != nil {
		return domain.NewDocument()
	}
	doc.Normalize()
	return &doc
}

// Save implements Repository.
func (r *MemoryRepository) Save(ctx context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.SaveErr != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, r.SaveErr)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrSaveFailed, err)
	}
	r.data = data
	r.saves++
	return nil
}

// Saves reports how many successful saves happened.
func (r *MemoryRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

// Snapshot returns the stored bytes, for comparing before and after an operation.
func (r *MemoryRepository) Snapshot() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte(nil), r.data...)
}
