// Package notify tells staff about new orders.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/qrmenu/models"
)

const sendTimeout = 10 * time.Second

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts a summary of every order to one chat.
type Telegram struct {
	bot    sender
	chatID int64
	logger logrus.FieldLogger
}

func NewTelegram(token string, chatID int64, logger logrus.FieldLogger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{Timeout: sendTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	logger.WithField("bot", bot.Self.UserName).Info("telegram notifications enabled")
	return &Telegram{bot: bot, chatID: chatID, logger: logger}, nil
}

// OrderPlaced gives up when ctx ends. The bot API takes no context, so a stalled send
// finishes in the background, bounded by the client timeout.
func (t *Telegram) OrderPlaced(ctx context.Context, order *models.Order) error {
	msg := tgbotapi.NewMessage(t.chatID, orderText(order))

	errc := make(chan error, 1)
	go func() {
		_, err := t.bot.Send(msg)
		errc <- err
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("failed to send telegram message: %w", err)
		}
	case <-ctx.Done():
		return fmt.Errorf("telegram message for %s not sent: %w", order.OrderID, ctx.Err())
	}
	t.logger.WithField("order_id", order.OrderID).Debug("order notification sent")
	return nil
}

func orderText(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order %s\n", order.OrderID)
	fmt.Fprintf(&b, "%s (%s, %s), %s\n", order.CustomerName, order.CollegeName, order.RollNumber, order.PhoneNumber)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%d x %s @ %s\n", item.Quantity, item.Name, item.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: %s (%s)", order.Total.StringFixed(2), order.PaymentMethod)
	return b.String()
}
