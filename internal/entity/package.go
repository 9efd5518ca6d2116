package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// DeliveryStatus is the lifecycle flag of a package.
type DeliveryStatus string

const (
	StatusWaiting  DeliveryStatus = "waiting"
	StatusReceived DeliveryStatus = "received"
)

// Valid reports whether the status is one of the known lifecycle values.
func (s DeliveryStatus) Valid() bool {
	return s == StatusWaiting || s == StatusReceived
}

// Package represents an incoming parcel stored in the relational database.
type Package struct {
	bun.BaseModel `bun:"table:packages"`

	ID             int64          `bun:",pk,autoincrement" json:"id"`
	PackageName    string         `bun:"package_name" json:"package_name"`
	SenderName     string         `bun:"sender_name" json:"sender_name"`
	SenderAddress  string         `bun:"sender_address,nullzero" json:"sender_address,omitempty"`
	Courier        string         `bun:"courier" json:"courier"`
	TrackingNumber string         `bun:"tracking_number" json:"tracking_number"`
	RecipientPhone string         `bun:"recipient_phone" json:"recipient_phone"`
	IsCod          bool           `bun:"is_cod" json:"is_cod"`
	CodAmount      *float64       `bun:"cod_amount,nullzero" json:"cod_amount,omitempty"`
	DeliveryStatus DeliveryStatus `bun:"delivery_status" json:"delivery_status"`
	ReceiverName   string         `bun:"receiver_name,nullzero" json:"receiver_name,omitempty"`
	ReceivedAt     *time.Time     `bun:"received_at,nullzero" json:"received_at,omitempty"`
	CreatedAt      time.Time      `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time      `bun:"updated_at,nullzero" json:"updated_at"`
}
