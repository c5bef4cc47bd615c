package notify

import (
	"fmt"
	"strings"

	"mobilestore/internal/models"
	"mobilestore/internal/util"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends order confirmation mails over SMTP. All sends are
// fire-and-forget from the order flow: failures are logged and counted,
// never surfaced to the customer.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// NewMailer creates a mailer for the given SMTP account.
func NewMailer(host string, port int, user, password, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		logger: util.GetLogger(),
	}
}

// SendOrderConfirmation mails the order summary to the customer.
func (m *Mailer) SendOrderConfirmation(order *models.Order, recipient string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", "Order confirmation - MobileStore")
	msg.SetBody("text/html", orderConfirmationBody(order))

	if err := m.dialer.DialAndSend(msg); err != nil {
		util.NotificationsFailedTotal.WithLabelValues("email").Inc()
		m.logger.Error("Failed to send confirmation email",
			zap.String("order_id", order.ID),
			zap.Error(err))
		return err
	}

	util.NotificationsSentTotal.WithLabelValues("email").Inc()
	return nil
}

func orderConfirmationBody(order *models.Order) string {
	payment := "Electronic wallet"
	if order.PaymentMethod == models.PaymentMethodCash {
		payment = "Cash on delivery"
	}
	paid := "Not paid yet"
	if order.IsPaid {
		paid = "Paid"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h3>Hello %s!</h3>", order.FullName)
	b.WriteString(`<p>You are receiving this email because you placed an order on <a target="_blank" href="https://www.mobilestore.vn/">www.mobilestore.vn</a></p>`)
	b.WriteString("<p>Shipping details:</p>")
	fmt.Fprintf(&b, "<div><b>Full name:</b> %s</div>", order.FullName)
	fmt.Fprintf(&b, "<div><b>Phone:</b> %s</div>", order.Phone)
	fmt.Fprintf(&b, "<div><b>Address:</b> %s</div>", order.Address)
	fmt.Fprintf(&b, "<div><b>City:</b> %s</div>", order.City)
	b.WriteString("<br/><p>Your order:</p>")
	fmt.Fprintf(&b, "<div><b>Items:</b> %d</div>", len(order.Items))
	fmt.Fprintf(&b, "<div><b>Total:</b> %d $</div>", order.TotalPrice)
	fmt.Fprintf(&b, "<div><b>Payment method:</b> %s</div>", payment)
	fmt.Fprintf(&b, "<div><b>Status:</b> %s</div>", paid)
	b.WriteString("<br/><div>Thank you for shopping with us.</div>")
	return b.String()
}
