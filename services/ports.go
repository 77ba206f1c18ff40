package services

import (
	"context"
	"io"

	"github.com/ray-remotestate/qrmenu/models"
)

// Image is an uploaded picture of a menu item.
type Image struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ImageStore persists item pictures and returns the reference stored on the item.
type ImageStore interface {
	Save(ctx context.Context, img *Image) (string, error)
	Delete(ctx context.Context, ref string) error
}

// Notifier is told about every committed order.
type Notifier interface {
	OrderPlaced(ctx context.Context, order *models.Order) error
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) OrderPlaced(context.Context, *models.Order) error { return nil }
