package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/qrmenu/models"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return tgbotapi.Message{}, args.Error(0)
}

type stalledSender struct {
	release chan struct{}
}

func (s *stalledSender) Send(tgbotapi.Chattable) (tgbotapi.Message, error) {
	<-s.release
	return tgbotapi.Message{}, nil
}

func testOrder() *models.Order {
	return &models.Order{
		OrderID:       "ORD20240101120000ABCD",
		CustomerName:  "Asha",
		CollegeName:   "City College",
		RollNumber:    "CS-042",
		PhoneNumber:   "9876543210",
		PaymentMethod: "UPI",
		Items: []models.LineItem{
			{ItemID: 1, Name: "Idli", Price: decimal.NewFromInt(100), Quantity: 3},
		},
		Totals: models.Totals{Total: decimal.RequireFromString("335")},
	}
}

func TestTelegram_OrderPlaced(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	bot := &mockSender{}
	bot.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		return ok && msg.ChatID == 42 &&
			msg.Text == "New order ORD20240101120000ABCD\n"+
				"Asha (City College, CS-042), 9876543210\n"+
				"3 x Idli @ 100.00\n"+
				"Total: 335.00 (UPI)"
	})).Return(nil)

	notifier := &Telegram{bot: bot, chatID: 42, logger: logger}

	require.NoError(t, notifier.OrderPlaced(context.Background(), testOrder()))
	bot.AssertExpectations(t)
}

func TestTelegram_OrderPlacedError(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	bot := &mockSender{}
	bot.On("Send", mock.Anything).Return(errors.New("chat not found"))

	notifier := &Telegram{bot: bot, chatID: 42, logger: logger}

	err := notifier.OrderPlaced(context.Background(), testOrder())
	assert.ErrorContains(t, err, "chat not found")
}

func TestTelegram_OrderPlacedStopsAtDeadline(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	bot := &stalledSender{release: make(chan struct{})}
	defer close(bot.release)

	notifier := &Telegram{bot: bot, chatID: 42, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := notifier.OrderPlaced(ctx, testOrder())

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
