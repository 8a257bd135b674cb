package utils

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/Kariqs/agronexus-api/models"
	"gopkg.in/gomail.v2"
)

type EmailData struct {
	Name    string
	Message string
	Order   models.Order
}

var orderPlacedTemplate = template.Must(template.New("order_placed").Parse(`<!DOCTYPE html>
<html>
<body>
  <p>Hello {{.Name}},</p>
  <p>{{.Message}}</p>
  <table>
    <tr><td>Order</td><td>{{.Order.ID}}</td></tr>
    <tr><td>Items</td><td>{{len .Order.OrderItems}}</td></tr>
    <tr><td>Total</td><td>{{.Order.TotalAmount.StringFixed 2}}</td></tr>
    <tr><td>Deliver to</td><td>{{.Order.DeliveryAddress}}</td></tr>
    <tr><td>Phone</td><td>{{.Order.PhoneNumber}}</td></tr>
  </table>
</body>
</html>`))

func renderEmail(tmpl *template.Template, data EmailData) (string, error) {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return body.String(), nil
}

type Mailer struct {
	from string
	send func(...*gomail.Message) error
}

func NewMailer(host string, port int, username, password, from string) *Mailer {
	dialer := gomail.NewDialer(host, port, username, password)
	return &Mailer{from: from, send: dialer.DialAndSend}
}

func (m *Mailer) SendEmail(emailTo, emailSubject string, data EmailData, tmpl *template.Template) error {
	body, err := renderEmail(tmpl, data)
	if err != nil {
		return err
	}

	message := gomail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", emailTo)
	message.SetHeader("Subject", emailSubject)
	message.SetBody("text/html", body)

	if err := m.send(message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// UserLookup resolves the recipient of an order email.
type UserLookup func(ctx context.Context, id string) (models.User, error)

// OrderMailer emails the farmer whenever an order is placed with them.
type OrderMailer struct {
	mailer *Mailer
	lookup UserLookup
}

func NewOrderMailer(mailer *Mailer, lookup UserLookup) *OrderMailer {
	return &OrderMailer{mailer: mailer, lookup: lookup}
}

func (n *OrderMailer) OrderPlaced(ctx context.Context, order models.Order) error {
	farmer, err := n.lookup(ctx, order.FarmerID)
	if err != nil {
		return fmt.Errorf("unable to find farmer %s: %w", order.FarmerID, err)
	}

	data := EmailData{
		Name:    farmer.DisplayName(),
		Message: "You have received a new order. The details are below.",
		Order:   order,
	}
	return n.mailer.SendEmail(farmer.Email, "New order received", data, orderPlacedTemplate)
}
