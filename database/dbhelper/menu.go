package dbhelper

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/qrmenu/models"
)

const menuItemColumns = `id, name, description, price, category, image_path, availability, created_at, uploaded_by`

func CreateMenuItem(ctx context.Context, db SQLExecutor, item *models.MenuItem) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, `
		INSERT INTO menu_items (name, description, price, category, image_path, availability, created_at, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		item.Name, item.Description, item.Price, item.Category, item.ImagePath, item.Availability, item.CreatedAt, item.UploadedBy).
		Scan(&id)
	return id, err
}

func GetMenuItem(ctx context.Context, db SQLExecutor, id int64) (*models.MenuItem, error) {
	row := db.QueryRowContext(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1`, id)
	item, err := scanMenuItem(row)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ListAvailableMenuItems returns orderable items sorted by category, then name.
func ListAvailableMenuItems(ctx context.Context, db SQLExecutor) ([]models.MenuItem, error) {
	return queryMenuItems(ctx, db, `
		SELECT `+menuItemColumns+`
		FROM menu_items
		WHERE availability > 0
		ORDER BY category, name, id`)
}

// ListMenuItems returns every item, newest first.
func ListMenuItems(ctx context.Context, db SQLExecutor) ([]models.MenuItem, error) {
	return queryMenuItems(ctx, db, `
		SELECT `+menuItemColumns+`
		FROM menu_items
		ORDER BY created_at DESC, id DESC`)
}

// SetAvailability overwrites the availability. It reports false when no item has that id.
func SetAvailability(ctx context.Context, db SQLExecutor, id int64, availability int) (bool, error) {
	res, err := db.ExecContext(ctx, `UPDATE menu_items SET availability = $1 WHERE id = $2`, availability, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Decremented is the state of a menu item right after an order took units from it.
type Decremented struct {
	Name         string
	Price        decimal.Decimal
	Availability int
}

// DecrementAvailability takes quantity units from the item. Unless allowNegative is set the
// update only matches when enough units remain; sql.ErrNoRows means the item is missing or short.
func DecrementAvailability(ctx context.Context, db SQLExecutor, id int64, quantity int, allowNegative bool) (*Decremented, error) {
	query := `
		UPDATE menu_items SET availability = availability - $1
		WHERE id = $2 AND availability >= $1
		RETURNING name, price, availability`
	if allowNegative {
		query = `
			UPDATE menu_items SET availability = availability - $1
			WHERE id = $2
			RETURNING name, price, availability`
	}

	var d Decremented
	if err := db.QueryRowContext(ctx, query, quantity, id).Scan(&d.Name, &d.Price, &d.Availability); err != nil {
		return nil, err
	}
	return &d, nil
}

func queryMenuItems(ctx context.Context, db SQLExecutor, query string, args ...any) ([]models.MenuItem, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.MenuItem, 0)
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMenuItem(s scanner) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.Category,
		&item.ImagePath,
		&item.Availability,
		&item.CreatedAt,
		&item.UploadedBy,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
