// Package mail sends transactional email over SMTP. Sending is asynchronous
// and best-effort; a failed delivery is logged, never surfaced to the caller.
package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"

	"inkwell/internal/config"
)

type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	enabled  bool
}

func NewMailer(cfg *config.Config) *Mailer {
	enabled := cfg.MailEnabled()
	if !enabled {
		slog.Warn("mailer disabled: missing SMTP configuration")
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPass,
		from:     cfg.SMTPFrom,
		enabled:  enabled,
	}
}

// Enabled reports whether the mailer can actually deliver.
func (m *Mailer) Enabled() bool {
	return m.enabled
}

func (m *Mailer) sendAsync(to []string, subject, body string) {
	if !m.enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", m.username, m.password, m.host)
		addr := fmt.Sprintf("%s:%s", m.host, m.port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: Inkwell <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), m.from, subject, mime, body))

		if err := smtp.SendMail(addr, auth, m.from, to, msg); err != nil {
			slog.Error("failed to send email", "to", to, "subject", subject, "error", err)
		} else {
			slog.Info("email sent", "to", to, "subject", subject)
		}
	}()
}

var welcomeTmpl = template.Must(template.New("welcome").Parse(`
<h2>Welcome to the Inkwell newsletter</h2>
<p>You are now subscribed with <strong>{{.Email}}</strong>.</p>
<p>We send a short digest when new posts go out. You can unsubscribe at any
time from the link in every issue.</p>
`))

var digestTmpl = template.Must(template.New("digest").Parse(`
<h2>New on Inkwell</h2>
<ul>
{{range .Posts}}
	<li><a href="{{$.BaseURL}}/posts/{{.Slug}}">{{.Title}}</a></li>
{{end}}
</ul>
`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// SendWelcome greets a fresh newsletter subscriber.
func (m *Mailer) SendWelcome(email string) {
	body, err := render(welcomeTmpl, map[string]string{"Email": email})
	if err != nil {
		slog.Error("rendering welcome email", "error", err)
		return
	}
	m.sendAsync([]string{email}, "Welcome to the Inkwell newsletter", body)
}

// DigestPost is one entry of a newsletter digest.
type DigestPost struct {
	Title string
	Slug  string
}

// SendDigest delivers the post digest to every recipient individually so
// addresses never leak between subscribers.
func (m *Mailer) SendDigest(recipients []string, baseURL string, posts []DigestPost) {
	if len(posts) == 0 {
		return
	}
	body, err := render(digestTmpl, map[string]any{"BaseURL": baseURL, "Posts": posts})
	if err != nil {
		slog.Error("rendering digest email", "error", err)
		return
	}
	for _, rcpt := range recipients {
		m.sendAsync([]string{rcpt}, "New posts on Inkwell", body)
	}
}
