package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type sendgridMailer struct {
	key    string
	host   string
	from   *sgmail.Email
	client *rest.Client
}

// NewSendGridMailer returns a Mailer backed by the SendGrid v3 API.
func NewSendGridMailer(key, appName, fromEmail string) Mailer {
	return newSendGridMailer(key, appName, fromEmail, sendgridHost)
}

func newSendGridMailer(key, appName, fromEmail, host string) *sendgridMailer {
	return &sendgridMailer{
		key:  key,
		host: host,
		from: sgmail.NewEmail(appName, fromEmail),
		// the timeout only backstops callers that pass a context without a deadline
		client: &rest.Client{HTTPClient: &http.Client{Timeout: time.Minute}},
	}
}

func (m *sendgridMailer) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail(to.Name, to.Address))
	}

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(p)
	v3.AddContent(sgmail.NewContent("text/plain", msg.Body))
	return v3
}

// Send posts the message and gives up when ctx is done.
func (m *sendgridMailer) Send(ctx context.Context, msg Message) error {
	req := sendgrid.GetRequest(m.key, sendgridEndpoint, m.host)
	req.Method = rest.Post
	req.Body = sgmail.GetRequestBody(m.prepare(msg))

	httpReq, err := rest.BuildRequestObject(req)
	if err != nil {
		return fmt.Errorf("sendgrid: build request: %w", err)
	}

	httpRes, err := m.client.HTTPClient.Do(httpReq.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	res, err := rest.BuildResponse(httpRes)
	if err != nil {
		return fmt.Errorf("sendgrid: read response: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
