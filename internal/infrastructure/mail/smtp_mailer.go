// Package mail envía las notificaciones de reportes por SMTP.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/jordan-wright/email"

	"github.com/jhoicas/sibci-api/internal/application/dto"
	"github.com/jhoicas/sibci-api/internal/application/ports"
	"github.com/jhoicas/sibci-api/pkg/config"
)

var _ ports.Notifier = (*Mailer)(nil)

// implicitTLSPort es el puerto SMTPS (TLS desde el primer byte); el resto usa STARTTLS si el servidor lo ofrece.
const implicitTLSPort = 465

// Mailer compone el mensaje MIME con jordan-wright/email y lo entrega con un
// cliente net/smtp cuyo socket respeta el deadline del contexto.
type Mailer struct {
	cfg        config.SMTPConfig
	senderName string
}

// NewMailer construye el mailer a partir de la configuración SMTP.
func NewMailer(cfg config.SMTPConfig, senderName string) *Mailer {
	if senderName == "" {
		senderName = "SIBCI"
	}
	return &Mailer{cfg: cfg, senderName: senderName}
}

// Enabled indica si hay usuario, contraseña y destinatario configurados.
func (m *Mailer) Enabled() bool { return m.cfg.Enabled() }

// AdminAddress destinatario de las notificaciones.
func (m *Mailer) AdminAddress() string { return m.cfg.AdminEmail }

// Send entrega la notificación. Sin deadline en ctx se aplica el timeout configurado.
func (m *Mailer) Send(ctx context.Context, n ports.Notification) error {
	if !m.Enabled() {
		return fmt.Errorf("mailer: correo no configurado")
	}
	to := n.To
	if to == "" {
		to = m.cfg.AdminEmail
	}
	raw, err := m.compose(to, n)
	if err != nil {
		return err
	}
	if _, ok := ctx.Deadline(); !ok && m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()
	}
	if err := m.deliver(ctx, to, raw); err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	return nil
}

func (m *Mailer) compose(to string, n ports.Notification) ([]byte, error) {
	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", m.senderName, m.cfg.User)
	e.To = []string{to}
	e.Subject = n.Subject
	if n.Text != "" {
		e.Text = []byte(n.Text)
	}
	if n.HTML != "" {
		e.HTML = []byte(n.HTML)
	}
	raw, err := e.Bytes()
	if err != nil {
		return nil, fmt.Errorf("mailer: componer mensaje: %w", err)
	}
	return raw, nil
}

func (m *Mailer) deliver(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("conectar %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	// cerrar el socket desbloquea cualquier lectura pendiente si ctx se cancela antes del deadline
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	tlsCfg := &tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}
	if m.cfg.Port == implicitTLSPort {
		conn = tls.Client(conn, tlsCfg)
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("saludo smtp: %w", err)
	}
	defer c.Close()

	if m.cfg.Port != implicitTLSPort {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(tlsCfg); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}
	if ok, _ := c.Extension("AUTH"); ok {
		if err := c.Auth(smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)); err != nil {
			return fmt.Errorf("autenticación: %w", err)
		}
	}
	if err := c.Mail(m.cfg.User); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("RCPT TO: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("escribir mensaje: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("cerrar DATA: %w", err)
	}
	return c.Quit()
}

// EnvInfo resume qué variables de correo están presentes, sin exponer sus valores.
func EnvInfo(cfg config.SMTPConfig) dto.MailEnvInfo {
	return dto.MailEnvInfo{
		EmailUserSet:  cfg.User != "",
		EmailPassSet:  cfg.Password != "",
		AdminEmailSet: cfg.AdminEmail != "",
		SMTPHost:      cfg.Host,
		SMTPPort:      cfg.Port,
	}
}

// defaultTimeout se usa en diagnósticos cuando la configuración no trae uno.
const defaultTimeout = 7 * time.Second

// Timeout devuelve el timeout efectivo de envío.
func (m *Mailer) Timeout() time.Duration {
	if m.cfg.Timeout > 0 {
		return m.cfg.Timeout
	}
	return defaultTimeout
}
