package setup

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jusmiller/todo-setup/internal/envfile"
)

// collectCredentials walks the operator through the .env file. An existing
// file is only replaced after explicit confirmation; declining keeps it
// byte for byte.
func (in *Installer) collectCredentials() error {
	path := in.cfg.EnvFile()

	if _, err := os.Stat(path); err == nil {
		overwrite, err := in.prompt.Confirm("A configuration file already exists. Replace it?", false)
		if err != nil {
			return err
		}
		if !overwrite {
			in.info("Keeping existing configuration at " + path)
			return nil
		}
	}

	env := envfile.New()

	name, err := in.prompt.Input("Your name (used in reminder emails)", "")
	if err != nil {
		return err
	}
	env.Set(envfile.KeyUserName, name)

	email, err := in.prompt.Input("Email address (SMTP login)", "")
	if err != nil {
		return err
	}
	env.Set(envfile.KeySMTPUser, email)

	host, err := in.prompt.Input("SMTP server", envfile.DeriveSMTPHost(email))
	if err != nil {
		return err
	}
	env.Set(envfile.KeySMTPHost, host)

	port, err := in.prompt.Input("SMTP port", "587")
	if err != nil {
		return err
	}
	env.Set(envfile.KeySMTPPort, port)

	secure, err := in.prompt.Confirm("Use TLS for SMTP?", true)
	if err != nil {
		return err
	}
	env.Set(envfile.KeySMTPSecure, strconv.FormatBool(secure))

	pass, err := in.prompt.Password("Email password (use an app password if available)")
	if err != nil {
		return err
	}
	env.Set(envfile.KeySMTPPass, pass)

	from, err := in.prompt.Input("From address for reminders", email)
	if err != nil {
		return err
	}
	env.Set(envfile.KeySMTPFrom, from)

	to, err := in.prompt.Input("Reminder recipient address", email)
	if err != nil {
		return err
	}
	env.Set(envfile.KeyReminder, to)

	// Optional integrations. Blank answers disable the feature.
	optional := []struct {
		key   string
		label string
	}{
		{envfile.KeySlackWebhook, "Slack webhook URL (optional, Enter to skip)"},
		{envfile.KeySlackMention, "Slack mention tag, e.g. <@U123> (optional, Enter to skip)"},
		{envfile.KeySlackToken, "Slack user token (optional, Enter to skip)"},
		{envfile.KeySlackUserID, "Slack user ID (optional, Enter to skip)"},
		{envfile.KeyGongKey, "Gong API key (optional, Enter to skip)"},
		{envfile.KeyGongSecret, "Gong API secret (optional, Enter to skip)"},
	}
	for _, opt := range optional {
		val, err := in.prompt.Input(opt.label, "")
		if err != nil {
			return err
		}
		if val != "" {
			env.Set(opt.key, val)
		}
	}

	interval, err := in.prompt.Input("Scan interval in minutes", "30")
	if err != nil {
		return err
	}
	env.Set(envfile.KeyScanInterval, interval)

	serverPort, err := in.prompt.Input("Server port", strconv.Itoa(in.cfg.Port))
	if err != nil {
		return err
	}
	env.Set(envfile.KeyPort, serverPort)

	if err := env.Write(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	in.success("Configuration written to " + path)
	return nil
}
