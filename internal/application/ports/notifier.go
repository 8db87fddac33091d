package ports

import "context"

// Notification correo saliente (HTML).
type Notification struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Notifier define el puerto de salida para notificaciones por correo.
// Enabled=false significa que faltan credenciales o destinatario; el caller no debe llamar Send.
type Notifier interface {
	Enabled() bool
	AdminAddress() string
	Send(ctx context.Context, n Notification) error
}
