package smtp

import (
	"context"
	"delivery-slot-service/internal/app/contracts"
	"delivery-slot-service/internal/app/drivers/mailer"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/dto/requests"
	"delivery-slot-service/internal/pkg/exceptions"
	"fmt"
	"net/smtp"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpService struct {
	Client   *mailer.SMTPClient
	sendMail sendMailFunc
}

func NewSmtpService(client *mailer.SMTPClient) contracts.EmailSender {
	return &smtpService{
		Client:   client,
		sendMail: smtp.SendMail,
	}
}

func (svc *smtpService) SendEmail(ctx context.Context, request *requests.EmailPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from := svc.Client.EmailSender
	msg := []byte(fmt.Sprintf(constvars.EmailSendBasicEmailSubjectFormat, from, request.To, request.Subject, request.Body))
	addr := fmt.Sprintf("%s:%d", svc.Client.Host, svc.Client.Port)

	err := svc.sendMail(addr, svc.Client.Auth, from, []string{request.To}, msg)
	if err != nil {
		return exceptions.ErrSMTPSendEmail(err, svc.Client.Host)
	}
	return nil
}
