package notify

import (
	"context"
	"log"
	"net/mail"
	"strings"
	"sync"
	"text/template"
	"time"

	"campus-availability-server/internal/models"
)

var (
	bookedStudentTmpl = template.Must(template.New("booked-student").Parse(
		`Hello {{.Appointment.StudentName}},

Your appointment request with {{.Faculty.Name}} ({{.Faculty.Department}}) has been received.

Date: {{.Appointment.Date}}
Time: {{.Appointment.Time}}
Cabin: {{.Faculty.CabinNumber}}
Purpose: {{.Appointment.Purpose}}

You will receive another email once it is confirmed.
`))

	bookedFacultyTmpl = template.Must(template.New("booked-faculty").Parse(
		`Hello {{.Faculty.Name}},

{{.Appointment.StudentName}} <{{.Appointment.StudentEmail}}> has requested an appointment.

Date: {{.Appointment.Date}}
Time: {{.Appointment.Time}}
Purpose: {{.Appointment.Purpose}}

Sign in to confirm or cancel the request.
`))

	statusTmpl = template.Must(template.New("status").Parse(
		`Hello {{.Appointment.StudentName}},

Your appointment with {{.Faculty.Name}} on {{.Appointment.Date}} at {{.Appointment.Time}} has been {{.Appointment.Status}}.
{{if eq (print .Appointment.Status) "confirmed"}}
Please be at cabin {{.Faculty.CabinNumber}} on time.
{{end}}`))
)

type templateData struct {
	Faculty     *models.Faculty
	Appointment *models.Appointment
}

// Notifier renders and sends appointment emails in the background.
// A nil *Notifier sends nothing.
type Notifier struct {
	mailer  Mailer
	prefix  string
	timeout time.Duration
	wg      sync.WaitGroup
}

// New creates a Notifier. Subjects are prefixed with "[appName] ".
func New(mailer Mailer, appName string) *Notifier {
	return &Notifier{
		mailer:  mailer,
		prefix:  "[" + appName + "] ",
		timeout: 30 * time.Second,
	}
}

// AppointmentBooked tells the student the request was received and the faculty member that it exists.
func (n *Notifier) AppointmentBooked(faculty *models.Faculty, apt *models.Appointment) {
	if n == nil {
		return
	}
	data := templateData{Faculty: faculty, Appointment: apt}
	n.dispatch(
		mail.Address{Name: apt.StudentName, Address: apt.StudentEmail},
		"Appointment request received",
		bookedStudentTmpl, data,
	)
	n.dispatch(
		mail.Address{Name: faculty.Name, Address: faculty.Email},
		"New appointment request from "+apt.StudentName,
		bookedFacultyTmpl, data,
	)
}

// AppointmentStatusChanged tells the student the outcome of their request.
func (n *Notifier) AppointmentStatusChanged(faculty *models.Faculty, apt *models.Appointment) {
	if n == nil {
		return
	}
	n.dispatch(
		mail.Address{Name: apt.StudentName, Address: apt.StudentEmail},
		"Appointment "+string(apt.Status),
		statusTmpl, templateData{Faculty: faculty, Appointment: apt},
	)
}

// Wait blocks until every queued message has been handed to the mailer.
func (n *Notifier) Wait() {
	if n == nil {
		return
	}
	n.wg.Wait()
}

func (n *Notifier) dispatch(to mail.Address, subject string, tmpl *template.Template, data templateData) {
	body := new(strings.Builder)
	if err := tmpl.Execute(body, data); err != nil {
		log.Printf("notify: render %s: %v", tmpl.Name(), err)
		return
	}
	msg := Message{To: []mail.Address{to}, Subject: n.prefix + subject, Body: body.String()}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.mailer.Send(ctx, msg); err != nil {
			log.Printf("notify: send %q to %s: %v", msg.Subject, to.Address, err)
		}
	}()
}
