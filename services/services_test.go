package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/qrmenu/database"
	"github.com/ray-remotestate/qrmenu/database/dbhelper"
	"github.com/ray-remotestate/qrmenu/models"
)

func newLogger() (logrus.FieldLogger, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

func seedItem(t *testing.T, db *database.DB, name, category, price string, availability int) int64 {
	t.Helper()
	id, err := dbhelper.CreateMenuItem(context.Background(), db, &models.MenuItem{
		Name:         name,
		Price:        decimal.RequireFromString(price),
		Category:     category,
		Availability: availability,
		CreatedAt:    time.Now().UTC(),
		UploadedBy:   "admin",
	})
	require.NoError(t, err)
	return id
}

func availabilityOf(t *testing.T, db *database.DB, id int64) int {
	t.Helper()
	item, err := dbhelper.GetMenuItem(context.Background(), db, id)
	require.NoError(t, err)
	return item.Availability
}

type mockImageStore struct {
	mock.Mock
}

func (m *mockImageStore) Save(ctx context.Context, img *Image) (string, error) {
	args := m.Called(ctx, img)
	return args.String(0), args.Error(1)
}

func (m *mockImageStore) Delete(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) OrderPlaced(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
