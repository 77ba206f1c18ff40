package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/qrmenu/database"
	"github.com/ray-remotestate/qrmenu/database/dbhelper"
	"github.com/ray-remotestate/qrmenu/models"
)

// CatalogService reads and mutates menu items.
type CatalogService struct {
	db     *database.DB
	images ImageStore
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewCatalogService(db *database.DB, images ImageStore, logger logrus.FieldLogger) *CatalogService {
	return &CatalogService{
		db:     db,
		images: images,
		logger: logger,
		now:    time.Now,
	}
}

// ListAvailable groups the items with availability > 0 by category. Categories keep the
// order in which the query first returns them; items within a category are sorted by name.
func (s *CatalogService) ListAvailable(ctx context.Context) (models.Menu, error) {
	items, err := dbhelper.ListAvailableMenuItems(ctx, s.db)
	if err != nil {
		return nil, &StorageError{Op: "list available items", Err: err}
	}
	return groupByCategory(items), nil
}

func groupByCategory(items []models.MenuItem) models.Menu {
	menu := make(models.Menu, 0)
	index := make(map[string]int)
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(menu)
			index[item.Category] = i
			menu = append(menu, models.CategoryGroup{Category: item.Category})
		}
		menu[i].Items = append(menu[i].Items, item)
	}
	return menu
}

// ListAll returns every item, newest first, regardless of availability.
func (s *CatalogService) ListAll(ctx context.Context) ([]models.MenuItem, error) {
	items, err := dbhelper.ListMenuItems(ctx, s.db)
	if err != nil {
		return nil, &StorageError{Op: "list items", Err: err}
	}
	return items, nil
}

// CreateItem validates the raw form values, stores the optional image and inserts the
// item together with its ITEM_ADDED log entry.
func (s *CatalogService) CreateItem(ctx context.Context, admin string, in models.NewMenuItem, img *Image) (*models.MenuItem, error) {
	if admin == "" {
		return nil, ErrNotAuthorized
	}

	item, err := parseNewMenuItem(in)
	if err != nil {
		return nil, err
	}
	item.UploadedBy = admin
	item.CreatedAt = s.now().UTC()

	if img != nil {
		ref, err := s.images.Save(ctx, img)
		if err != nil {
			return nil, &StorageError{Op: "save item image", Err: err}
		}
		item.ImagePath = ref
	}

	err = s.db.Tx(ctx, func(tx *sql.Tx) error {
		id, err := dbhelper.CreateMenuItem(ctx, tx, item)
		if err != nil {
			return err
		}
		item.ID = id

		details := fmt.Sprintf("Added item: %s in category: %s", item.Name, item.Category)
		return dbhelper.InsertAdminLog(ctx, tx, admin, models.ActionItemAdded, details, item.CreatedAt)
	})
	if err != nil {
		if item.ImagePath != "" {
			if delErr := s.images.Delete(ctx, item.ImagePath); delErr != nil {
				s.logger.WithError(delErr).WithField("image", item.ImagePath).Warn("failed to remove orphaned image")
			}
		}
		return nil, &StorageError{Op: "create item", Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"item_id":  item.ID,
		"category": item.Category,
		"admin":    admin,
	}).Info("menu item created")
	return item, nil
}

func parseNewMenuItem(in models.NewMenuItem) (*models.MenuItem, error) {
	var v validator
	v.required("name", in.Name)
	v.required("category", in.Category)

	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil {
		v.addf("price must be a number")
	} else if price.IsNegative() {
		v.addf("price must not be negative")
	} else if !price.Equal(price.Round(2)) {
		v.addf("price must have at most 2 decimal places")
	}

	availability, err := strconv.Atoi(strings.TrimSpace(in.Availability))
	if err != nil {
		v.addf("availability must be an integer")
	}

	if err := v.err(); err != nil {
		return nil, err
	}

	return &models.MenuItem{
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		Price:        price,
		Category:     strings.TrimSpace(in.Category),
		Availability: availability,
	}, nil
}

// SetAvailability overwrites an item's availability without bounds checks and records
// an AVAILABILITY_UPDATED entry.
func (s *CatalogService) SetAvailability(ctx context.Context, admin string, itemID int64, availability int) error {
	if admin == "" {
		return ErrNotAuthorized
	}

	err := s.db.Tx(ctx, func(tx *sql.Tx) error {
		found, err := dbhelper.SetAvailability(ctx, tx, itemID, availability)
		if err != nil {
			return err
		}
		if !found {
			return &NotFoundError{Resource: "menu item", Key: "id", Value: strconv.FormatInt(itemID, 10)}
		}

		details := fmt.Sprintf("Updated availability for item ID %d to %d", itemID, availability)
		return dbhelper.InsertAdminLog(ctx, tx, admin, models.ActionAvailabilityUpdated, details, s.now().UTC())
	})
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return notFound
		}
		return &StorageError{Op: "set availability", Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"item_id":      itemID,
		"availability": availability,
		"admin":        admin,
	}).Info("availability updated")
	return nil
}
