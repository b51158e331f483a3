package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentio/internal/interfaces"
	"github.com/ternarybob/sentio/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// SnapshotStorage implements the SnapshotStorage interface for Badger.
// Snapshots are append-only: records are inserted under sequence keys and
// never updated in place.
type SnapshotStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSnapshotStorage creates a new SnapshotStorage instance
func NewSnapshotStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SnapshotStorage {
	return &SnapshotStorage{
		db:     db,
		logger: logger,
	}
}

func (s *SnapshotStorage) SaveMarketSnapshot(ctx context.Context, snapshot *models.MarketSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is required")
	}
	if snapshot.Symbol == "" {
		return fmt.Errorf("snapshot symbol is required")
	}

	if err := s.db.Store().Insert(badgerhold.NextSequence(), snapshot); err != nil {
		return fmt.Errorf("failed to save market snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStorage) SaveNewsItems(ctx context.Context, items []models.NewsItem) error {
	for i := range items {
		if items[i].Symbol == "" {
			return fmt.Errorf("news item symbol is required")
		}
		if err := s.db.Store().Insert(badgerhold.NextSequence(), &items[i]); err != nil {
			return fmt.Errorf("failed to save news item: %w", err)
		}
	}
	return nil
}

func (s *SnapshotStorage) GetMarketSnapshots(ctx context.Context, symbol string, from, to time.Time) ([]models.MarketSnapshot, error) {
	var snapshots []models.MarketSnapshot
	query := badgerhold.Where("Symbol").Eq(symbol).
		And("Timestamp").Ge(from).
		And("Timestamp").Lt(to).
		SortBy("Timestamp")

	if err := s.db.Store().Find(&snapshots, query); err != nil {
		return nil, fmt.Errorf("failed to query market snapshots: %w", err)
	}
	return snapshots, nil
}

func (s *SnapshotStorage) GetNewsItems(ctx context.Context, symbol string, from, to time.Time) ([]models.NewsItem, error) {
	var items []models.NewsItem
	query := badgerhold.Where("Symbol").Eq(symbol).
		And("Timestamp").Ge(from).
		And("Timestamp").Lt(to).
		SortBy("Timestamp")

	if err := s.db.Store().Find(&items, query); err != nil {
		return nil, fmt.Errorf("failed to query news items: %w", err)
	}
	return items, nil
}
