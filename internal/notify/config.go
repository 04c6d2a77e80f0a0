package notify

import "github.com/BruksfildServices01/branch-queue/internal/config"

// ProvidersFromConfig picks SMTP for email and the webhook gateway for SMS,
// logging the messages instead when either is not configured.
func ProvidersFromConfig(cfg *config.Config) (email, sms Provider) {
	email = LogProvider{Channel: ChannelEmail}
	if cfg.SMTPEnabled() {
		email = NewSMTPProvider(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.SMTPFrom,
		})
	}

	sms = LogProvider{Channel: ChannelSMS}
	if cfg.SMSWebhookURL != "" {
		sms = NewWebhookProvider(ChannelSMS, cfg.SMSWebhookURL, cfg.SMSWebhookToken)
	}
	return email, sms
}
