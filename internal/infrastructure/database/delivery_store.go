package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sglre6355/notion-dday/internal/domain"
)

// DeliveryStore keeps an append-only log of posted D-Day messages.
// It is never consulted before sending.
type DeliveryStore struct {
	db *gorm.DB
}

// NewDeliveryStore initialises a DeliveryStore backed by db.
func NewDeliveryStore(db *gorm.DB) *DeliveryStore {
	return &DeliveryStore{db: db}
}

// AutoMigrate ensures the deliveries table exists with the expected schema.
func (s *DeliveryStore) AutoMigrate(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("delivery store not initialised")
	}

	return s.db.WithContext(ctx).AutoMigrate(&deliveryRecord{})
}

// RecordDelivery appends a delivery to the log.
func (s *DeliveryStore) RecordDelivery(ctx context.Context, delivery domain.Delivery) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("delivery store not initialised")
	}

	record := toRecord(delivery)
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

type deliveryRecord struct {
	ID        uint      `gorm:"primaryKey"`
	ChannelID string    `gorm:"column:channel_id;size:128;not null;index:idx_deliveries_channel"`
	Title     string    `gorm:"column:title;type:text;not null"`
	EntryDate time.Time `gorm:"column:entry_date;type:date;not null"`
	Kind      string    `gorm:"column:kind;size:16;not null"`
	SentAt    time.Time `gorm:"column:sent_at;not null;index:idx_deliveries_sent_at"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (deliveryRecord) TableName() string {
	return "deliveries"
}

func toRecord(delivery domain.Delivery) deliveryRecord {
	y, m, d := delivery.EntryDate.Date()
	return deliveryRecord{
		ChannelID: delivery.ChannelID,
		Title:     delivery.Title,
		EntryDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Kind:      string(delivery.Kind),
		SentAt:    delivery.SentAt.UTC(),
	}
}
