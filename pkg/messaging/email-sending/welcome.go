// Package emailsending dispatches the few transactional emails this service
// sends. Sending is optional: without a configured SMTP server list the
// functions are no-ops.
package emailsending

import (
	"bytes"
	"html/template"
	"log/slog"

	smtpclient "github.com/january-msemakweli/MoAfyaCamps/pkg/smtp-client"
)

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<html>
<body>
<p>Hello,</p>
<p>An account was created for you on the MoAfya camp data collection platform.</p>
<p>You can sign in with this email address at <a href="{{.LoginURL}}">{{.LoginURL}}</a>.</p>
<p>Please change your password after your first login.</p>
</body>
</html>`))

// SendWelcomeEmail notifies a freshly provisioned user. Failures are logged
// only, provisioning must not roll back over a missed email.
func SendWelcomeEmail(clients *smtpclient.SmtpClients, toEmail string, loginURL string) {
	if clients == nil {
		return
	}

	var body bytes.Buffer
	if err := welcomeTemplate.Execute(&body, struct{ LoginURL string }{LoginURL: loginURL}); err != nil {
		slog.Error("failed to render welcome email", slog.String("error", err.Error()))
		return
	}

	if err := clients.SendMail([]string{toEmail}, "Your MoAfya Camps account", body.String()); err != nil {
		slog.Error("failed to send welcome email", slog.String("email", toEmail), slog.String("error", err.Error()))
	}
}
