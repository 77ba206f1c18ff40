package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// money is rendered as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultCategories are offered on the upload form. Categories stay free-form.
var DefaultCategories = []string{"Starters", "Main Course", "Dessert", "Chats", "Beverages", "Others"}

type MenuItem struct {
	ID           int64           `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	Description  string          `db:"description" json:"description"`
	Price        decimal.Decimal `db:"price" json:"price"`
	Category     string          `db:"category" json:"category"`
	ImagePath    string          `db:"image_path" json:"image_path,omitempty"`
	Availability int             `db:"availability" json:"availability"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UploadedBy   string          `db:"uploaded_by" json:"uploaded_by"`
}

// CategoryGroup is one category of the storefront menu.
type CategoryGroup struct {
	Category string     `json:"category"`
	Items    []MenuItem `json:"items"`
}

// Menu is the storefront projection: categories in the order they were first
// encountered, each holding its items sorted by name.
type Menu []CategoryGroup

// MarshalJSON renders the menu as a category -> items object while keeping group order.
func (m Menu) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, group := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(group.Category)
		if err != nil {
			return nil, err
		}
		items := group.Items
		if items == nil {
			items = []MenuItem{}
		}
		val, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NewMenuItem carries the raw form values of an upload; parsing happens in the catalog service.
type NewMenuItem struct {
	Name         string
	Description  string
	Price        string
	Category     string
	Availability string
}
