package dto

// MailEnvInfo indica qué variables de correo están configuradas.
type MailEnvInfo struct {
	EmailUserSet  bool   `json:"EMAIL_USER_set"`
	EmailPassSet  bool   `json:"EMAIL_PASS_set"`
	AdminEmailSet bool   `json:"ADMIN_EMAIL_set"`
	SMTPHost      string `json:"SMTP_HOST"`
	SMTPPort      int    `json:"SMTP_PORT"`
}

// MailSendResult resultado del intento de envío de prueba.
type MailSendResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// MailDiagnosticResponse salida de /mail/test.
type MailDiagnosticResponse struct {
	EnvInfo    MailEnvInfo    `json:"envInfo"`
	SendResult MailSendResult `json:"sendResult"`
}
