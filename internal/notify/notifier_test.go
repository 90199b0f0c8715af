package notify

import (
	"bytes"
	"context"
	"log"
	"net/mail"
	"sort"
	"testing"

	"campus-availability-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtures() (*models.Faculty, *models.Appointment) {
	faculty := &models.Faculty{
		Name:        "Dr. Priya Sharma",
		Department:  "Electronics & Communication",
		Email:       "priya.sharma@vit.ac.in",
		CabinNumber: "TT-205",
	}
	apt := &models.Appointment{
		StudentName:  "Asha Verma",
		StudentEmail: "asha@student.vit.ac.in",
		Date:         "2030-01-10",
		Time:         "10:30",
		Purpose:      "Thesis outline",
		Status:       models.StatusPending,
	}
	return faculty, apt
}

func TestNotifier_AppointmentBooked(t *testing.T) {
	rec := &RecordingMailer{}
	n := New(rec, "Campus")
	faculty, apt := fixtures()

	n.AppointmentBooked(faculty, apt)
	n.Wait()

	sent := rec.Sent()
	require.Len(t, sent, 2)
	sort.Slice(sent, func(i, j int) bool { return sent[i].To[0].Address < sent[j].To[0].Address })

	student, fac := sent[0], sent[1]
	assert.Equal(t, "asha@student.vit.ac.in", student.To[0].Address)
	assert.Equal(t, "[Campus] Appointment request received", student.Subject)
	assert.Contains(t, student.Body, "Dr. Priya Sharma")
	assert.Contains(t, student.Body, "TT-205")

	assert.Equal(t, "priya.sharma@vit.ac.in", fac.To[0].Address)
	assert.Contains(t, fac.Subject, "Asha Verma")
	assert.Contains(t, fac.Body, "Thesis outline")
}

func TestNotifier_AppointmentStatusChanged(t *testing.T) {
	rec := &RecordingMailer{}
	n := New(rec, "Campus")
	faculty, apt := fixtures()
	apt.Status = models.StatusConfirmed

	n.AppointmentStatusChanged(faculty, apt)
	n.Wait()

	sent := rec.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "[Campus] Appointment confirmed", sent[0].Subject)
	assert.Contains(t, sent[0].Body, "has been confirmed")
	assert.Contains(t, sent[0].Body, "cabin TT-205")

	apt.Status = models.StatusCancelled
	n.AppointmentStatusChanged(faculty, apt)
	n.Wait()
	sent = rec.Sent()
	require.Len(t, sent, 2)
	assert.Contains(t, sent[1].Body, "has been cancelled")
	assert.NotContains(t, sent[1].Body, "cabin TT-205")
}

func TestConsoleMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewConsoleMailer(log.New(&buf, "", 0), "noreply@campus.local")

	err := m.Send(context.Background(), Message{
		To:      []mail.Address{{Name: "Asha", Address: "asha@x.io"}, {Address: "b@x.io"}},
		Subject: "Hi",
		Body:    "Body text",
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Subject: Hi")
	assert.Contains(t, out, `To: "Asha" <asha@x.io>, <b@x.io>`)
	assert.Contains(t, out, "Body text")
}

func TestSendGridMailer_Prepare(t *testing.T) {
	m := newSendGridMailer("key", "Campus", "noreply@campus.local", sendgridHost)
	v3 := m.prepare(Message{
		To:      []mail.Address{{Name: "Asha", Address: "asha@x.io"}},
		Subject: "Hello",
		Body:    "Text",
	})

	require.Len(t, v3.Personalizations, 1)
	assert.Equal(t, "Hello", v3.Personalizations[0].Subject)
	require.Len(t, v3.Personalizations[0].To, 1)
	assert.Equal(t, "asha@x.io", v3.Personalizations[0].To[0].Address)
	assert.Equal(t, "noreply@campus.local", v3.From.Address)
	require.Len(t, v3.Content, 1)
	assert.Equal(t, "text/plain", v3.Content[0].Type)
}
