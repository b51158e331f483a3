package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentio/internal/interfaces"
	"github.com/timshannon/badgerhold/v4"
)

// symbolSetKey is the single record holding the tracked symbol set.
const symbolSetKey = "daily_stocks_list"

// symbolSet is the stored form of the tracked set.
type symbolSet struct {
	Key       string    `json:"key"`
	Symbols   []string  `json:"symbols"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SymbolStorage implements the SymbolStorage interface for Badger
type SymbolStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSymbolStorage creates a new SymbolStorage instance
func NewSymbolStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SymbolStorage {
	return &SymbolStorage{
		db:     db,
		logger: logger,
	}
}

func (s *SymbolStorage) GetSymbols(ctx context.Context) ([]string, error) {
	var set symbolSet
	if err := s.db.Store().Get(symbolSetKey, &set); err != nil {
		if err == badgerhold.ErrNotFound {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to get symbol set: %w", err)
	}
	if set.Symbols == nil {
		return []string{}, nil
	}
	return set.Symbols, nil
}

func (s *SymbolStorage) PutSymbols(ctx context.Context, symbols []string) error {
	set := symbolSet{
		Key:       symbolSetKey,
		Symbols:   symbols,
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.db.Store().Upsert(symbolSetKey, &set); err != nil {
		return fmt.Errorf("failed to store symbol set: %w", err)
	}

	s.logger.Debug().Int("count", len(symbols)).Msg("Tracked symbol set updated")
	return nil
}
