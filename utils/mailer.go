package utils

import (
	"bytes"
	"fmt"
	"net/smtp"
	"text/template"

	"github.com/resend/resend-go/v2"

	"github.com/lkoehl/threesixty-server/config"
)

// Mailer is the boundary to the mail collaborator. Sends are synchronous;
// failure handling is the caller's concern.
type Mailer interface {
	Send(subject, body, from string, to []string) error
}

// NewMailer picks the provider configured via MAIL_PROVIDER.
func NewMailer() Mailer {
	if config.Env.MailProvider == "resend" && config.Env.ResendAPIKey != "" {
		return &resendMailer{client: resend.NewClient(config.Env.ResendAPIKey)}
	}
	return &smtpMailer{
		server: config.Env.SMTPHost + ":" + config.Env.SMTPPort,
		auth:   smtp.PlainAuth("", config.Env.SMTPUser, config.Env.SMTPPassword, config.Env.SMTPHost),
	}
}

type smtpMailer struct {
	server string
	auth   smtp.Auth
}

func (m *smtpMailer) Send(subject, body, from string, to []string) error {
	var msg bytes.Buffer
	for i, addr := range to {
		if i == 0 {
			fmt.Fprintf(&msg, "To: %s", addr)
		} else {
			fmt.Fprintf(&msg, ", %s", addr)
		}
	}
	fmt.Fprintf(&msg, "\r\nFrom: %s\r\nSubject: %s\r\n", from, subject)
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	msg.WriteString(body)
	return smtp.SendMail(m.server, m.auth, from, to, msg.Bytes())
}

type resendMailer struct {
	client *resend.Client
}

func (m *resendMailer) Send(subject, body, from string, to []string) error {
	_, err := m.client.Emails.Send(&resend.SendEmailRequest{
		From:    from,
		To:      to,
		Subject: subject,
		Text:    body,
	})
	return err
}

var inviteTmpl = template.Must(template.New("invite").Parse(
	`Hello,

you have been asked to give feedback about {{.EmployeeName}}.

Answer the questions here: {{.SurveyURL}}

The link is personal, please do not share it.
`))

var managerTmpl = template.Must(template.New("manager").Parse(
	`Hello,

the 360-degree feedback survey for {{.EmployeeName}} has been created.

Manage it here: {{.SurveyURL}}

Invite participants from that page and mark the survey complete to see the
results.
`))

var employeeTmpl = template.Must(template.New("employee").Parse(
	`Hello {{.EmployeeName}},

a 360-degree feedback survey about you has been created.

You can follow it here: {{.SurveyURL}}
`))

type MailData struct {
	EmployeeName string
	SurveyURL    string
}

func render(t *template.Template, data MailData) string {
	var buf bytes.Buffer
	// templates are static, rendering cannot fail on this data shape
	_ = t.Execute(&buf, data)
	return buf.String()
}

func InviteMail(data MailData) (subject, body string) {
	return fmt.Sprintf("360-degree feedback - %s", data.EmployeeName), render(inviteTmpl, data)
}

func ManagerMail(data MailData) (subject, body string) {
	return fmt.Sprintf("360-degree feedback - %s", data.EmployeeName), render(managerTmpl, data)
}

func EmployeeMail(data MailData) (subject, body string) {
	return "360-degree feedback", render(employeeTmpl, data)
}
