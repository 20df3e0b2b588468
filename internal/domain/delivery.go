package domain

import "time"

// DeliveryKind identifies which flow produced a delivery.
type DeliveryKind string

const (
	DeliveryKindScheduled DeliveryKind = "scheduled"
	DeliveryKindCommand   DeliveryKind = "command"
)

// Delivery is an audit record of a D-Day message posted to Discord.
type Delivery struct {
	ChannelID string
	Title     string
	EntryDate time.Time
	Kind      DeliveryKind
	SentAt    time.Time
}
