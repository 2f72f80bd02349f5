package smtp

import (
	"context"
	"delivery-slot-service/internal/app/drivers/mailer"
	"delivery-slot-service/internal/pkg/dto/requests"
	"errors"
	netsmtp "net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSendEmail_FormatsMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	svc := &smtpService{
		Client: &mailer.SMTPClient{Host: "mail.local", Port: 2525, EmailSender: "no-reply@mmm.com"},
		sendMail: func(addr string, _ netsmtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			return nil
		},
	}

	err := svc.SendEmail(context.Background(), &requests.EmailPayload{
		To:      "supplier@acme.com",
		Subject: "hello",
		Body:    "body",
	})

	assert.NoError(t, err)
	assert.Equal(t, "mail.local:2525", gotAddr)
	assert.Equal(t, "no-reply@mmm.com", gotFrom)
	assert.Equal(t, []string{"supplier@acme.com"}, gotTo)
	assert.Equal(t, "From: no-reply@mmm.com\r\nTo: supplier@acme.com\r\nSubject: hello\r\n\r\nbody\r\n", string(gotMsg))
}

func TestSendEmail_WrapsTransportError(t *testing.T) {
	svc := &smtpService{
		Client: &mailer.SMTPClient{Host: "mail.local", Port: 25},
		sendMail: func(string, netsmtp.Auth, string, []string, []byte) error {
			return errors.New("connection refused")
		},
	}

	err := svc.SendEmail(context.Background(), &requests.EmailPayload{To: "a@b.com", Subject: "s", Body: "b"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
