package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/qrmenu/config"
	"github.com/ray-remotestate/qrmenu/database"
	"github.com/ray-remotestate/qrmenu/database/dbhelper"
	"github.com/ray-remotestate/qrmenu/models"
	"github.com/ray-remotestate/qrmenu/utils"
)

const dashboardLimit = 20

// ErrInvalidCredentials is returned by Login for a wrong username or password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session is what a successful login hands back to the admin.
type Session struct {
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AdminService struct {
	db           *database.DB
	username     string
	passwordHash string
	secret       []byte
	tokenTTL     time.Duration
	logger       logrus.FieldLogger
	now          func() time.Time
}

// NewAdminService expects auth.AdminPasswordHash to be set; cmd hashes a plain
// ADMIN_PASSWORD before calling it.
func NewAdminService(db *database.DB, auth config.Auth, logger logrus.FieldLogger) *AdminService {
	return &AdminService{
		db:           db,
		username:     auth.AdminUsername,
		passwordHash: auth.AdminPasswordHash,
		secret:       auth.SecretKey,
		tokenTTL:     auth.TokenTTL,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *AdminService) Login(ctx context.Context, username, password string) (*Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	// the hash is always checked so a wrong username costs as much as a wrong password
	passOK := utils.CheckPassword(s.passwordHash, password)
	if !userOK || !passOK {
		s.logger.WithField("username", username).Warn("admin login rejected")
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	token, err := utils.GenerateAccessToken(s.secret, s.username, s.tokenTTL, now)
	if err != nil {
		return nil, err
	}

	if err := dbhelper.InsertAdminLog(ctx, s.db, s.username, models.ActionLogin, "Admin logged in", now.UTC()); err != nil {
		return nil, &StorageError{Op: "record login", Err: err}
	}

	s.logger.WithField("admin", s.username).Info("admin logged in")
	return &Session{
		Username:  s.username,
		Token:     token,
		ExpiresAt: now.Add(s.tokenTTL),
	}, nil
}

func (s *AdminService) Logout(ctx context.Context, admin string) error {
	if admin == "" {
		return ErrNotAuthorized
	}
	if err := dbhelper.InsertAdminLog(ctx, s.db, admin, models.ActionLogout, "Admin logged out", s.now().UTC()); err != nil {
		return &StorageError{Op: "record logout", Err: err}
	}
	s.logger.WithField("admin", admin).Info("admin logged out")
	return nil
}

// Dashboard returns every menu item with the most recent orders and log entries.
func (s *AdminService) Dashboard(ctx context.Context, admin string) (*models.Dashboard, error) {
	if admin == "" {
		return nil, ErrNotAuthorized
	}

	items, err := dbhelper.ListMenuItems(ctx, s.db)
	if err != nil {
		return nil, &StorageError{Op: "list items", Err: err}
	}
	orders, err := dbhelper.ListRecentOrders(ctx, s.db, dashboardLimit)
	if err != nil {
		return nil, &StorageError{Op: "list orders", Err: err}
	}
	logs, err := dbhelper.ListRecentAdminLogs(ctx, s.db, dashboardLimit)
	if err != nil {
		return nil, &StorageError{Op: "list admin logs", Err: err}
	}

	return &models.Dashboard{Items: items, Orders: orders, Logs: logs}, nil
}
