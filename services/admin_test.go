package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ray-remotestate/qrmenu/config"
	"github.com/ray-remotestate/qrmenu/database"
	"github.com/ray-remotestate/qrmenu/database/dbhelper"
	"github.com/ray-remotestate/qrmenu/database/dbtest"
	"github.com/ray-remotestate/qrmenu/models"
	"github.com/ray-remotestate/qrmenu/utils"
)

func newAdminService(t *testing.T, db *database.DB) *AdminService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	logger, _ := newLogger()
	return NewAdminService(db, config.Auth{
		SecretKey:         []byte("secret"),
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
		TokenTTL:          time.Hour,
	}, logger)
}

func TestAdminService_Login(t *testing.T) {
	testCases := map[string]struct {
		username    string
		password    string
		expectedErr error
	}{
		"should issue a token for the configured admin": {
			username: "admin",
			password: "password123",
		},
		"should reject a wrong password": {
			username:    "admin",
			password:    "password",
			expectedErr: ErrInvalidCredentials,
		},
		"should reject an unknown user": {
			username:    "root",
			password:    "password123",
			expectedErr: ErrInvalidCredentials,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			db := dbtest.New(t)
			svc := newAdminService(t, db)

			session, err := svc.Login(context.Background(), tc.username, tc.password)

			logs, logErr := dbhelper.ListRecentAdminLogs(context.Background(), db, 10)
			require.NoError(t, logErr)

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, session)
				assert.Empty(t, logs)
				return
			}

			require.NoError(t, err)
			claims, err := utils.ParseAccessToken([]byte("secret"), session.Token)
			require.NoError(t, err)
			assert.Equal(t, "admin", claims.Subject)
			assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)

			require.Len(t, logs, 1)
			assert.Equal(t, models.ActionLogin, logs[0].Action)
		})
	}
}

func TestAdminService_LogoutAndDashboard(t *testing.T) {
	db := dbtest.New(t)
	svc := newAdminService(t, db)
	logger, _ := newLogger()
	orders := NewOrderService(db, defaultPolicy, nil, logger)
	ctx := context.Background()

	chai := seedItem(t, db, "Chai", "Beverages", "10", 100)
	seedItem(t, db, "Kulfi", "Dessert", "30", 0)
	for i := 0; i < dashboardLimit+5; i++ {
		_, err := orders.PlaceOrder(ctx, orderRequest(cartLine(chai, "10", 1)))
		require.NoError(t, err)
	}

	_, err := svc.Login(ctx, "admin", "password123")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, "admin"))
	assert.ErrorIs(t, svc.Logout(ctx, ""), ErrNotAuthorized)

	_, err = svc.Dashboard(ctx, "")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	dashboard, err := svc.Dashboard(ctx, "admin")
	require.NoError(t, err)
	assert.Len(t, dashboard.Items, 2)
	assert.Len(t, dashboard.Orders, dashboardLimit)
	require.Len(t, dashboard.Logs, 2)
	assert.Equal(t, models.ActionLogout, dashboard.Logs[0].Action)
	assert.Equal(t, models.ActionLogin, dashboard.Logs[1].Action)
}
