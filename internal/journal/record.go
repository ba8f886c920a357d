package journal

import (
	"time"

	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/core"
)

// Record is one admitted quote intent as stored in postgres.
type Record struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	TraceID       uint64    `gorm:"index"`
	Coin          string    `gorm:"size:32;index"`
	Side          string    `gorm:"size:8"`
	Price         float64   `gorm:"not null"`
	Size          float64   `gorm:"not null"`
	BaseBefore    float64
	BaseAfter     float64
	SimulatedFill bool
	EventTimeMs   uint64 `gorm:"index"`
	CreatedAt     time.Time
}

func (Record) TableName() string {
	return "quote_intents"
}

// NewRecord maps an intent onto its row.
func NewRecord(intent core.Intent) Record {
	return Record{
		TraceID:       intent.TraceID,
		Coin:          intent.Coin,
		Side:          intent.Proposal.Side.String(),
		Price:         intent.Proposal.Price,
		Size:          intent.Proposal.Size,
		BaseBefore:    intent.Decision.BaseBefore,
		BaseAfter:     intent.Decision.BaseAfter,
		SimulatedFill: intent.Decision.FillApplied,
		EventTimeMs:   intent.TimestampMs,
	}
}
