package ports

import "context"

// CaptchaVerifier verifica el token reCAPTCHA enviado por el cliente.
// Con Enabled()=false (sin secret configurado) la verificación se omite.
type CaptchaVerifier interface {
	Enabled() bool
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}
