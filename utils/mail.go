package utils

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"savefood/models"
)

// Mailer sends transactional email through SendGrid.
type Mailer struct {
	client *sendgrid.Client
	from   *mail.Email
	logger *zap.Logger
}

func NewMailer(apiKey, from string, logger *zap.Logger) *Mailer {
	return &Mailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("Savefood", from),
		logger: logger,
	}
}

// OrderPlaced mails the buyer a confirmation with the order id and pickup code.
func (m *Mailer) OrderPlaced(ctx context.Context, email string, order *models.Order) error {
	subject, plain, htmlBody := OrderConfirmationContent(order)
	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail("", email), plain, htmlBody)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sending order confirmation: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sending order confirmation: sendgrid returned %d", response.StatusCode)
	}

	m.logger.Info("order confirmation sent", zap.String("email", email), zap.Stringer("order_id", order.ID))
	return nil
}

// OrderConfirmationContent renders subject, plain text and html bodies.
func OrderConfirmationContent(order *models.Order) (string, string, string) {
	subject := "Your surprise bag order is in"
	plain := fmt.Sprintf("Order placed successfully! Order ID: %s\nTotal: $%.2f", order.ID, order.TotalPrice)
	htmlBody := fmt.Sprintf("<strong>Order placed successfully!</strong><p>Order ID: %s</p><p>Total: $%.2f</p>", order.ID, order.TotalPrice)
	if order.PickupCode != "" {
		plain += "\nPickup code: " + order.PickupCode
		htmlBody += "<p>Pickup code: <strong>" + html.EscapeString(order.PickupCode) + "</strong></p>"
	}
	return subject, plain, htmlBody
}
