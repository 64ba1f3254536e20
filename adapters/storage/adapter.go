// Package storage persists bill history per category so estimates can use
// bills imported in earlier runs.
package storage

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"roommates/core/bill"
	"roommates/core/household"
)

// DateLayout is how bill periods are keyed and stored
const DateLayout = "2006-01-02"

// Store is the bill history interface
type Store interface {
	// Save stores bills under category. A bill with the same period as a
	// stored one replaces it. Returns the number of bills written.
	Save(ctx context.Context, category string, bills []bill.Bill) (int, error)

	// List returns the bills of a category in period order
	List(ctx context.Context, category string) ([]StoredBill, error)

	// Categories returns the stored categories sorted by name
	Categories(ctx context.Context) ([]string, error)

	// Delete removes every bill of a category
	Delete(ctx context.Context, category string) (int, error)

	// Close closes the store
	Close() error
}

// StoredBill is a bill with its storage metadata
type StoredBill struct {
	ID         string
	Category   string
	Bill       bill.Bill
	ImportedAt time.Time
}

// Bills strips storage metadata
func Bills(stored []StoredBill) []bill.Bill {
	out := make([]bill.Bill, len(stored))
	for i, s := range stored {
		out[i] = s.Bill
	}
	return out
}

// SortByPeriod orders bills by start date, then end date
func SortByPeriod(stored []StoredBill) {
	sort.SliceStable(stored, func(i, j int) bool {
		a, b := stored[i].Bill.Period(), stored[j].Bill.Period()
		if !a.Start().Equal(b.Start()) {
			return a.Start().Before(b.Start())
		}
		return a.End().Before(b.End())
	})
}

// PeriodKey identifies a bill within its category
func PeriodKey(period household.DateInterval) string {
	return period.Start().Format(DateLayout) + "/" + period.End().Format(DateLayout)
}

// MemoryStore is an in-memory storage backend (for testing)
type MemoryStore struct {
	bills map[string]map[string]StoredBill
	mu    sync.RWMutex
}

// NewMemoryStore creates a memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bills: make(map[string]map[string]StoredBill),
	}
}

func (s *MemoryStore) Save(ctx context.Context, category string, bills []bill.Bill) (int, error) {
	if category == "" {
		return 0, fmt.Errorf("category is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	byPeriod, ok := s.bills[category]
	if !ok {
		byPeriod = make(map[string]StoredBill)
		s.bills[category] = byPeriod
	}

	now := time.Now()
	for _, b := range bills {
		key := PeriodKey(b.Period())
		id := uuid.New().String()
		if existing, ok := byPeriod[key]; ok {
			id = existing.ID
		}
		byPeriod[key] = StoredBill{ID: id, Category: category, Bill: b, ImportedAt: now}
	}
	return len(bills), nil
}

func (s *MemoryStore) List(ctx context.Context, category string) ([]StoredBill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []StoredBill
	for _, stored := range s.bills[category] {
		out = append(out, stored)
	}
	SortByPeriod(out)
	return out, nil
}

func (s *MemoryStore) Categories(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for category, bills := range s.bills {
		if len(bills) > 0 {
			out = append(out, category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, category string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.bills[category])
	delete(s.bills, category)
	return n, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
var _ io.Closer = (*MemoryStore)(nil)
