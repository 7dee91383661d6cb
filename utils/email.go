package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/smtp"
	"strconv"
	textTemplate "text/template"

	"cinema_reservation/config"
	"cinema_reservation/constants"
	"cinema_reservation/logger"

	"github.com/jordan-wright/email"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const ticketImageName = "ticket.png"

var htmlTemplates = map[string]*template.Template{
	constants.MAIL_BOOKING_CONFIRMATION: template.Must(template.New(constants.MAIL_BOOKING_CONFIRMATION).Parse(`<html><body>
<h2>Hello {{.Name}},</h2>
<p>Your booking <strong>{{.Reference}}</strong> is confirmed.</p>
<table>
<tr><td>Movie</td><td>{{.Movie}}</td></tr>
<tr><td>Cinema</td><td>{{.Cinema}}</td></tr>
<tr><td>Room</td><td>{{.Room}}</td></tr>
<tr><td>Seats</td><td>{{.Seats}}</td></tr>
<tr><td>Starts</td><td>{{.Start}}</td></tr>
<tr><td>Price</td><td>{{.Price}}</td></tr>
</table>
<p>Show this code at the entrance:</p>
<img src="cid:` + ticketImageName + `" alt="{{.Reference}}"/>
</body></html>`)),
	constants.MAIL_WELCOME: template.Must(template.New(constants.MAIL_WELCOME).Parse(`<html><body>
<h2>Welcome {{.Name}}!</h2>
<p>Your account is ready. Enjoy the show.</p>
</body></html>`)),
}

var textTemplates = map[string]*textTemplate.Template{
	constants.MAIL_PASSWORD_RESET: textTemplate.Must(textTemplate.New(constants.MAIL_PASSWORD_RESET).Parse(
		"Hello {{.Name}},\n\nFollow this link to choose a new password. It expires in one hour.\n\n{{.Link}}\n")),
}

var subjects = map[string]string{
	constants.MAIL_BOOKING_CONFIRMATION: "Booking confirmation #%v",
	constants.MAIL_WELCOME:              "Welcome to the cinema",
	constants.MAIL_PASSWORD_RESET:       "Reset your password",
}

// RenderMail returns the subject and body of the named template. html tells
// whether the body is HTML or plain text.
func RenderMail(name string, vars map[string]any) (subject, body string, html bool, err error) {
	format, ok := subjects[name]
	if !ok {
		return "", "", false, fmt.Errorf("unknown mail template %q", name)
	}
	subject = format
	if name == constants.MAIL_BOOKING_CONFIRMATION {
		subject = fmt.Sprintf(format, vars["Reference"])
	}

	var buf bytes.Buffer
	if tmpl, ok := htmlTemplates[name]; ok {
		if err := tmpl.Execute(&buf, vars); err != nil {
			return "", "", false, err
		}
		return subject, buf.String(), true, nil
	}
	if err := textTemplates[name].Execute(&buf, vars); err != nil {
		return "", "", false, err
	}
	return subject, buf.String(), false, nil
}

// SMTPMailer delivers templated mail in the background. HTML mail goes
// through gomail, plain text mail through jordan-wright/email.
type SMTPMailer struct {
	settings config.SMTPSettings
}

func NewSMTPMailer(settings config.SMTPSettings) *SMTPMailer {
	return &SMTPMailer{settings: settings}
}

func (m *SMTPMailer) Send(to, name string, vars map[string]any) {
	if !m.settings.Enabled() {
		logger.Log.Info("smtp not configured, mail skipped", zap.String("template", name), zap.String("to", to))
		return
	}
	go func() {
		if err := m.deliver(to, name, vars); err != nil {
			logger.Log.Error("send mail", zap.String("template", name), zap.String("to", to), zap.Error(err))
		}
	}()
}

func (m *SMTPMailer) deliver(to, name string, vars map[string]any) error {
	subject, body, html, err := RenderMail(name, vars)
	if err != nil {
		return err
	}
	if !html {
		return m.sendText(to, subject, body)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.settings.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if name == constants.MAIL_BOOKING_CONFIRMATION {
		png, err := GenerateQRCode(fmt.Sprint(vars["Reference"]), TicketQRSize)
		if err != nil {
			return err
		}
		msg.Embed(ticketImageName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(png)
			return err
		}))
	}

	d := gomail.NewDialer(m.settings.Host, m.settings.Port, m.settings.Username, m.settings.Password)
	return d.DialAndSend(msg)
}

func (m *SMTPMailer) sendText(to, subject, body string) error {
	e := email.NewEmail()
	e.From = m.settings.From
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	addr := m.settings.Host + ":" + strconv.Itoa(m.settings.Port)
	var auth smtp.Auth
	if m.settings.Username != "" {
		auth = smtp.PlainAuth("", m.settings.Username, m.settings.Password, m.settings.Host)
	}
	return e.Send(addr, auth)
}
