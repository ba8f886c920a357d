package journal

import (
	"context"

	"github.com/yanun0323/errors"
	"gorm.io/gorm"

	"github.com/XxSNiPxX/hyperliquid-hft-test/pkg/exception"
)

// Store persists batches of records.
type Store interface {
	Save(ctx context.Context, records []Record) error
}

// GormStore writes records through gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the journal table and returns a store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, errors.Wrap(exception.ErrNilInstance, "journal db")
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, errors.Wrap(err, "auto migrate quote_intents")
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Save(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(records, len(records)).Error; err != nil {
		return errors.Wrap(err, "insert quote intents").With("count", len(records))
	}
	return nil
}
