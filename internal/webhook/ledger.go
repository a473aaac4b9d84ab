package webhook

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger tracks event ids that have been handed to a handler. Reserve must be
// a single atomic check-and-set: two concurrent deliveries of the same id must
// never both claim it.
type Ledger interface {
	// Reserve claims eventID. It returns false when the id is already
	// claimed, in which case no handler may run.
	Reserve(ctx context.Context, event *Event) (bool, error)
	// Release re-opens eventID after a failed handler run so the processor's
	// redelivery can be dispatched again.
	Release(ctx context.Context, eventID string) error
	// EvictBefore drops entries received before cutoff. The retention window
	// must cover the processor's maximum redelivery interval.
	EvictBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// EventRecord is a processed-event ledger row.
type EventRecord struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	EventID    string       `gorm:"uniqueIndex;not null"`
	EventType  string       `gorm:"type:text;not null"`
	ReceivedAt time.Time    `gorm:"not null;index"`
}

func (EventRecord) TableName() string { return "processed_events" }

// GormLedger persists the ledger in the relational store. The unique index on
// event_id makes Reserve an atomic insert-or-skip.
type GormLedger struct {
	db    *gorm.DB
	idGen *snowflake.Node
}

func NewGormLedger(db *gorm.DB, idGen *snowflake.Node) *GormLedger {
	return &GormLedger{db: db, idGen: idGen}
}

func (l *GormLedger) Reserve(ctx context.Context, event *Event) (bool, error) {
	record := EventRecord{
		ID:         l.idGen.Generate(),
		EventID:    event.ID,
		EventType:  event.Type,
		ReceivedAt: event.ReceivedAt,
	}
	result := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&record)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (l *GormLedger) Release(ctx context.Context, eventID string) error {
	return l.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&EventRecord{}).Error
}

func (l *GormLedger) EvictBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := l.db.WithContext(ctx).
		Where("received_at < ?", cutoff).
		Delete(&EventRecord{})
	return result.RowsAffected, result.Error
}
