package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one line of an incoming cart. Name is informational; the stored
// line item takes its name from the catalog.
type CartLine struct {
	ItemID   int64           `json:"id"`
	Name     string          `json:"name,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type PlaceOrderRequest struct {
	CustomerName  string     `json:"customer_name"`
	CollegeName   string     `json:"college_name"`
	RollNumber    string     `json:"roll_number"`
	PhoneNumber   string     `json:"phone_number"`
	PaymentMethod string     `json:"payment_method"`
	Items         []CartLine `json:"items"`
}

// LineItem is a line of a persisted order, snapshotted at order time.
type LineItem struct {
	ItemID   int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Totals is the pricing of an order. Total is always Subtotal + Tax + PackingFee.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"gst"`
	PackingFee decimal.Decimal `json:"packing_fee"`
	Total      decimal.Decimal `json:"total"`
}

type Order struct {
	ID            int64      `db:"id" json:"-"`
	OrderID       string     `db:"order_id" json:"order_id"`
	CustomerName  string     `db:"customer_name" json:"customer_name"`
	CollegeName   string     `db:"college_name" json:"college_name"`
	RollNumber    string     `db:"roll_number" json:"roll_number"`
	PhoneNumber   string     `db:"phone_number" json:"phone_number"`
	PaymentMethod string     `db:"payment_method" json:"payment_method"`
	Items         []LineItem `db:"-" json:"items"`
	Totals
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	BillDownloaded bool      `db:"bill_downloaded" json:"bill_downloaded"`
}

// Receipt is returned to the customer once an order is placed.
type Receipt struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id"`
	Totals
}
