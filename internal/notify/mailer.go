// Package notify sends email about bookings and their outcome.
package notify

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"sync"
	"time"
)

// Message is a plain-text email.
type Message struct {
	To      []mail.Address
	Subject string
	Body    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type consoleMailer struct {
	logger *log.Logger
	from   mail.Address
}

// NewConsoleMailer returns a Mailer that writes messages to logger.
func NewConsoleMailer(logger *log.Logger, from string) Mailer {
	return &consoleMailer{logger: logger, from: mail.Address{Address: from}}
}

func (m *consoleMailer) Send(_ context.Context, msg Message) error {
	body := new(strings.Builder)
	fmt.Fprintf(body, "From: %s\r\n", m.from.String())
	fmt.Fprintf(body, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(body, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(body, "To: %s\r\n", joinAddresses(msg.To))
	fmt.Fprint(body, "\r\n")
	fmt.Fprintf(body, "%s\r\n", msg.Body)
	m.logger.Println(body.String())
	return nil
}

func joinAddresses(addrs []mail.Address) string {
	toJoin := make([]string, 0, len(addrs))
	for _, a := range addrs {
		toJoin = append(toJoin, a.String())
	}
	return strings.Join(toJoin, ", ")
}

// RecordingMailer keeps every message in memory.
type RecordingMailer struct {
	mu   sync.Mutex
	sent []Message
}

func (m *RecordingMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns a copy of the recorded messages.
func (m *RecordingMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}
