package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"

	"github.com/ray-remotestate/qrmenu/middlewares"
	"github.com/ray-remotestate/qrmenu/models"
	"github.com/ray-remotestate/qrmenu/services"
	"github.com/ray-remotestate/qrmenu/utils"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) ListAvailable(ctx context.Context) (models.Menu, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Menu), args.Error(1)
}

func (m *mockCatalog) ListAll(ctx context.Context) ([]models.MenuItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.MenuItem), args.Error(1)
}

func (m *mockCatalog) CreateItem(ctx context.Context, admin string, in models.NewMenuItem, img *services.Image) (*models.MenuItem, error) {
	args := m.Called(ctx, admin, in, img)
	return args.Get(0).(*models.MenuItem), args.Error(1)
}

func (m *mockCatalog) SetAvailability(ctx context.Context, admin string, itemID int64, availability int) error {
	args := m.Called(ctx, admin, itemID, availability)
	return args.Error(0)
}

type mockOrders struct {
	mock.Mock
}

func (m *mockOrders) PlaceOrder(ctx context.Context, req *models.PlaceOrderRequest) (*models.Receipt, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*models.Receipt), args.Error(1)
}

type mockBills struct {
	mock.Mock
}

func (m *mockBills) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockBills) MarkDownloaded(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type mockAdmin struct {
	mock.Mock
}

func (m *mockAdmin) Login(ctx context.Context, username, password string) (*services.Session, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(*services.Session), args.Error(1)
}

func (m *mockAdmin) Logout(ctx context.Context, admin string) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *mockAdmin) Dashboard(ctx context.Context, admin string) (*models.Dashboard, error) {
	args := m.Called(ctx, admin)
	return args.Get(0).(*models.Dashboard), args.Error(1)
}

type mockPinger struct {
	mock.Mock
}

func (m *mockPinger) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockImages struct {
	mock.Mock
}

func (m *mockImages) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	args := m.Called(ctx, name)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func asAdmin(r *http.Request) *http.Request {
	claims := &utils.Claims{
		Role:             models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "admin"},
	}
	return r.WithContext(middlewares.WithClaims(r.Context(), claims))
}
