package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/sibci-api/internal/application/dto"
	"github.com/jhoicas/sibci-api/internal/application/ports"
	"github.com/jhoicas/sibci-api/internal/domain/policy"
)

// MailDiagnostics prueba la configuración de correo enviando un mensaje al administrador.
type MailDiagnostics struct {
	notifier ports.Notifier
	env      dto.MailEnvInfo
	timeout  time.Duration
	now      func() time.Time
}

// NewMailDiagnostics recibe qué variables de correo están presentes (sin sus valores).
func NewMailDiagnostics(notifier ports.Notifier, env dto.MailEnvInfo, timeout time.Duration) *MailDiagnostics {
	if timeout <= 0 {
		timeout = 7 * time.Second
	}
	return &MailDiagnostics{notifier: notifier, env: env, timeout: timeout, now: time.Now}
}

// Run informa el entorno de correo e intenta un envío de prueba acotado por el timeout.
func (d *MailDiagnostics) Run(ctx context.Context, caller policy.Caller) (*dto.MailDiagnosticResponse, error) {
	if err := policy.Check(caller.Role, policy.MailDiagnose); err != nil {
		return nil, err
	}
	out := &dto.MailDiagnosticResponse{EnvInfo: d.env}
	if d.notifier == nil || !d.notifier.Enabled() {
		out.SendResult = dto.MailSendResult{OK: false, Message: "Faltan variables de entorno para enviar correo"}
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	stamp := d.now().Format("02/01/2006 15:04:05")
	err := d.notifier.Send(ctx, ports.Notification{
		To:      d.notifier.AdminAddress(),
		Subject: "SIBCI - Prueba de correo desde servidor",
		Text:    fmt.Sprintf("Prueba enviada desde servidor en %s", stamp),
		HTML:    fmt.Sprintf("<p>Prueba enviada desde servidor en %s</p>", stamp),
	})
	if err != nil {
		out.SendResult = dto.MailSendResult{OK: false, Message: err.Error()}
		return out, nil
	}
	out.SendResult = dto.MailSendResult{OK: true, Message: "correo de prueba enviado a " + d.notifier.AdminAddress()}
	return out, nil
}
