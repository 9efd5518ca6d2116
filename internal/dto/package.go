package dto

import "time"

// PackageResponse represents a package as exposed via the HTTP transport.
// TrackingURL is derived from the courier table; it is never stored.
type PackageResponse struct {
	ID             int64      `json:"id"`
	PackageName    string     `json:"package_name"`
	SenderName     string     `json:"sender_name"`
	SenderAddress  string     `json:"sender_address,omitempty"`
	Courier        string     `json:"courier"`
	TrackingNumber string     `json:"tracking_number"`
	RecipientPhone string     `json:"recipient_phone"`
	IsCod          bool       `json:"is_cod"`
	CodAmount      *float64   `json:"cod_amount,omitempty"`
	DeliveryStatus string     `json:"delivery_status"`
	ReceiverName   string     `json:"receiver_name,omitempty"`
	ReceivedAt     *time.Time `json:"received_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	TrackingURL    string     `json:"tracking_url,omitempty"`
}

// CreatePackageRequest carries the admin create payload.
type CreatePackageRequest struct {
	PackageName    string   `json:"package_name"`
	SenderName     string   `json:"sender_name"`
	SenderAddress  string   `json:"sender_address"`
	Courier        string   `json:"courier"`
	TrackingNumber string   `json:"tracking_number"`
	RecipientPhone string   `json:"recipient_phone"`
	IsCod          bool     `json:"is_cod"`
	CodAmount      *float64 `json:"cod_amount"`
}

// UpdatePackageRequest carries a partial admin edit; nil fields are untouched.
type UpdatePackageRequest struct {
	PackageName    *string  `json:"package_name"`
	SenderName     *string  `json:"sender_name"`
	SenderAddress  *string  `json:"sender_address"`
	Courier        *string  `json:"courier"`
	TrackingNumber *string  `json:"tracking_number"`
	RecipientPhone *string  `json:"recipient_phone"`
	IsCod          *bool    `json:"is_cod"`
	CodAmount      *float64 `json:"cod_amount"`
	DeliveryStatus *string  `json:"delivery_status"`
	ReceiverName   *string  `json:"receiver_name"`
}

// ReceiveRequest confirms a delivery from the public surface.
type ReceiveRequest struct {
	ReceiverName string `json:"receiver_name"`
}

// LoginRequest carries the admin password.
type LoginRequest struct {
	Password string `json:"password"`
}
