package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/qrmenu/database"
	"github.com/ray-remotestate/qrmenu/database/dbhelper"
	"github.com/ray-remotestate/qrmenu/models"
)

// BillService looks orders up by their public id.
type BillService struct {
	db     *database.DB
	logger logrus.FieldLogger
}

func NewBillService(db *database.DB, logger logrus.FieldLogger) *BillService {
	return &BillService{db: db, logger: logger}
}

func (s *BillService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := dbhelper.GetOrderByOrderID(ctx, s.db, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, orderNotFound(orderID)
	}
	if err != nil {
		return nil, &StorageError{Op: "get order", Err: err}
	}
	return order, nil
}

// MarkDownloaded sets the bill-downloaded flag. Marking an already downloaded bill is a no-op.
func (s *BillService) MarkDownloaded(ctx context.Context, orderID string) error {
	// both sqlite and postgres count matched rows, so a repeated call still finds the order
	found, err := dbhelper.MarkBillDownloaded(ctx, s.db, orderID)
	if err != nil {
		return &StorageError{Op: "mark bill downloaded", Err: err}
	}
	if !found {
		return orderNotFound(orderID)
	}

	s.logger.WithField("order_id", orderID).Debug("bill marked downloaded")
	return nil
}

func orderNotFound(orderID string) *NotFoundError {
	return &NotFoundError{Resource: "order", Key: "order_id", Value: orderID}
}
