package envfile

import "strings"

// smtpHosts maps common email domains to their SMTP submission hosts.
var smtpHosts = map[string]string{
	"gmail.com":      "smtp.gmail.com",
	"googlemail.com": "smtp.gmail.com",
	"outlook.com":    "smtp-mail.outlook.com",
	"hotmail.com":    "smtp-mail.outlook.com",
	"live.com":       "smtp-mail.outlook.com",
	"yahoo.com":      "smtp.mail.yahoo.com",
	"icloud.com":     "smtp.mail.me.com",
	"me.com":         "smtp.mail.me.com",
	"mac.com":        "smtp.mail.me.com",
}

// DeriveSMTPHost suggests an SMTP host for an email address. Unrecognized
// domains fall back to smtp.<domain>; the result is a suggestion the operator
// can edit, never a forced value.
func DeriveSMTPHost(email string) string {
	_, domain, ok := strings.Cut(email, "@")
	if !ok || domain == "" {
		return ""
	}
	domain = strings.ToLower(strings.TrimSpace(domain))
	if host, ok := smtpHosts[domain]; ok {
		return host
	}
	return "smtp." + domain
}
