package services

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/qrmenu/config"
	"github.com/ray-remotestate/qrmenu/database"
	"github.com/ray-remotestate/qrmenu/database/dbhelper"
	"github.com/ray-remotestate/qrmenu/models"
)

const (
	maxOrderAttempts  = 3
	maxOrderIDRetries = 5

	notifyTimeout = 5 * time.Second
)

var errOrderIDExhausted = errors.New("could not generate a unique order id")

// OrderService places customer orders.
type OrderService struct {
	db       *database.DB
	policy   config.Orders
	notifier Notifier
	logger   logrus.FieldLogger

	now           func() time.Time
	newOrderID    func(time.Time) string
	notifyTimeout time.Duration
}

func NewOrderService(db *database.DB, policy config.Orders, notifier Notifier, logger logrus.FieldLogger) *OrderService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &OrderService{
		db:            db,
		policy:        policy,
		notifier:      notifier,
		logger:        logger,
		now:           time.Now,
		newOrderID:    NewOrderID,
		notifyTimeout: notifyTimeout,
	}
}

// PlaceOrder validates the cart, takes the ordered units from the catalog and stores the
// order. Every decrement and the insert commit together or not at all.
func (s *OrderService) PlaceOrder(ctx context.Context, req *models.PlaceOrderRequest) (*models.Receipt, error) {
	if err := validateOrder(req); err != nil {
		return nil, err
	}

	var (
		order *models.Order
		err   error
	)
	for attempt := 1; attempt <= maxOrderAttempts; attempt++ {
		order, err = s.placeOnce(ctx, req)
		if err == nil {
			break
		}
		if !database.IsUniqueViolation(err) && !database.IsSerializationFailure(err) {
			break
		}
		s.logger.WithError(err).WithField("attempt", attempt).Warn("order transaction conflicted, retrying")
	}
	if err != nil {
		return nil, orderError(err)
	}

	log := s.logger.WithFields(logrus.Fields{
		"order_id": order.OrderID,
		"lines":    len(order.Items),
		"total":    order.Total.String(),
	})
	log.Info("order placed")

	notifyCtx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()
	if err := s.notifier.OrderPlaced(notifyCtx, order); err != nil {
		log.WithError(err).Warn("failed to send order notification")
	}

	return &models.Receipt{
		Success: true,
		OrderID: order.OrderID,
		Totals:  order.Totals,
	}, nil
}

func (s *OrderService) placeOnce(ctx context.Context, req *models.PlaceOrderRequest) (*models.Order, error) {
	order := &models.Order{
		CustomerName:  req.CustomerName,
		CollegeName:   req.CollegeName,
		RollNumber:    req.RollNumber,
		PhoneNumber:   req.PhoneNumber,
		PaymentMethod: req.PaymentMethod,
		Items:         make([]models.LineItem, 0, len(req.Items)),
	}

	err := s.db.Tx(ctx, func(tx *sql.Tx) error {
		for _, line := range req.Items {
			d, err := dbhelper.DecrementAvailability(ctx, tx, line.ItemID, line.Quantity, s.policy.AllowNegativeAvailability)
			if errors.Is(err, sql.ErrNoRows) {
				return explainShortfall(ctx, tx, line)
			}
			if err != nil {
				return err
			}

			price := line.Price
			if !s.policy.TrustClientPrices {
				price = d.Price
			}
			order.Items = append(order.Items, models.LineItem{
				ItemID:   line.ItemID,
				Name:     d.Name,
				Price:    price,
				Quantity: line.Quantity,
			})
		}
		order.Totals = ComputeTotals(order.Items)

		now := s.now().UTC()
		orderID, err := s.uniqueOrderID(ctx, tx, now)
		if err != nil {
			return err
		}
		order.OrderID = orderID
		order.CreatedAt = now

		order.ID, err = dbhelper.CreateOrder(ctx, tx, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) uniqueOrderID(ctx context.Context, tx *sql.Tx, now time.Time) (string, error) {
	for i := 0; i < maxOrderIDRetries; i++ {
		id := s.newOrderID(now)
		exists, err := dbhelper.OrderIDExists(ctx, tx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", errOrderIDExhausted
}

// explainShortfall runs after a guarded decrement matched no row and tells a missing
// item apart from one without enough units left.
func explainShortfall(ctx context.Context, tx *sql.Tx, line models.CartLine) error {
	item, err := dbhelper.GetMenuItem(ctx, tx, line.ItemID)
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Resource: "menu item", Key: "id", Value: strconv.FormatInt(line.ItemID, 10)}
	}
	if err != nil {
		return err
	}
	return &InsufficientAvailabilityError{
		ItemID:    item.ID,
		Name:      item.Name,
		Requested: line.Quantity,
		Available: item.Availability,
	}
}

func validateOrder(req *models.PlaceOrderRequest) error {
	var v validator
	if req == nil {
		v.addf("request body is required")
		return v.err()
	}

	v.required("customer_name", req.CustomerName)
	v.required("college_name", req.CollegeName)
	v.required("roll_number", req.RollNumber)
	v.required("phone_number", req.PhoneNumber)
	v.required("payment_method", req.PaymentMethod)

	if len(req.Items) == 0 {
		v.addf("items must not be empty")
	}
	for i, line := range req.Items {
		if line.ItemID <= 0 {
			v.addf("items[%d]: id must be positive", i)
		}
		if line.Quantity <= 0 {
			v.addf("items[%d]: quantity must be positive", i)
		}
		if line.Price.IsNegative() {
			v.addf("items[%d]: price must not be negative", i)
		} else if !line.Price.Equal(line.Price.Round(2)) {
			v.addf("items[%d]: price must have at most 2 decimal places", i)
		}
	}
	return v.err()
}

func orderError(err error) error {
	var (
		notFound     *NotFoundError
		insufficient *InsufficientAvailabilityError
	)
	switch {
	case errors.As(err, &notFound):
		return notFound
	case errors.As(err, &insufficient):
		return insufficient
	default:
		return &StorageError{Op: "place order", Err: err}
	}
}
