package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentio/internal/common"
	"github.com/ternarybob/sentio/internal/interfaces"
)

// Service is the in-memory view of the tracked symbol set, backed by
// persistent storage. Mutations write through to storage before updating
// the in-memory set, so a failed write leaves the view unchanged.
type Service struct {
	mu      sync.RWMutex
	symbols []string
	storage interfaces.SymbolStorage
	logger  arbor.ILogger
}

// NewService creates a registry over the given symbol storage.
func NewService(storage interfaces.SymbolStorage, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Load reads the tracked set from storage into memory. Called at startup
// and by Reload.
func (s *Service) Load(ctx context.Context) error {
	symbols, err := s.storage.GetSymbols(ctx)
	if err != nil {
		return fmt.Errorf("failed to load symbol set: %w", err)
	}

	normalized := common.NormalizeSymbols(symbols)

	s.mu.Lock()
	s.symbols = normalized
	s.mu.Unlock()

	s.logger.Info().Int("count", len(normalized)).Msg("Tracked symbol set loaded")
	return nil
}

// Reload re-reads the tracked set from storage, picking up out-of-band
// edits.
func (s *Service) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// Add inserts symbols into the tracked set. Symbols are normalized and
// duplicates are ignored. Returns the updated set.
func (s *Service) Add(ctx context.Context, symbols []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := common.NormalizeSymbols(append(append([]string{}, s.symbols...), symbols...))
	if err := s.storage.PutSymbols(ctx, merged); err != nil {
		return nil, fmt.Errorf("failed to persist symbol set: %w", err)
	}

	s.symbols = merged
	return s.snapshotLocked(), nil
}

// Remove deletes symbols from the tracked set. Unknown symbols are ignored.
// Returns the updated set.
func (s *Service) Remove(ctx context.Context, symbols []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[string]struct{}, len(symbols))
	for _, sym := range symbols {
		drop[common.NormalizeSymbol(sym)] = struct{}{}
	}

	remaining := make([]string, 0, len(s.symbols))
	for _, sym := range s.symbols {
		if _, ok := drop[sym]; !ok {
			remaining = append(remaining, sym)
		}
	}

	if err := s.storage.PutSymbols(ctx, remaining); err != nil {
		return nil, fmt.Errorf("failed to persist symbol set: %w", err)
	}

	s.symbols = remaining
	return s.snapshotLocked(), nil
}

// Snapshot returns a sorted copy of the tracked set. Ticks operate on a
// snapshot so mid-tick mutations do not change which symbols a tick covers.
func (s *Service) Snapshot() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() []string {
	out := make([]string, len(s.symbols))
	copy(out, s.symbols)
	sort.Strings(out)
	return out
}
