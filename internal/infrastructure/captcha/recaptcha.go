// Package captcha verifica tokens reCAPTCHA contra la API siteverify de Google.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/sibci-api/internal/application/ports"
)

var _ ports.CaptchaVerifier = (*Recaptcha)(nil)

const defaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Recaptcha adaptador de ports.CaptchaVerifier sobre net/http.
// Con secret vacío Enabled() es false y el login omite la verificación.
type Recaptcha struct {
	secret     string
	verifyURL  string
	httpClient *http.Client
}

// NewRecaptcha construye el verificador.
func NewRecaptcha(secret, verifyURL string) *Recaptcha {
	if verifyURL == "" {
		verifyURL = defaultVerifyURL
	}
	return &Recaptcha{
		secret:    secret,
		verifyURL: verifyURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

func (r *Recaptcha) Enabled() bool { return r.secret != "" }

// Verify devuelve success de siteverify. Errores de red o respuestas no-200 se
// devuelven como error; el caso de uso los trata como captcha fallido.
func (r *Recaptcha) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	form := url.Values{}
	form.Set("secret", r.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("captcha: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, fmt.Errorf("captcha: timeout o cancelación: %w", ctx.Err())
		}
		return false, fmt.Errorf("captcha: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
	if err != nil {
		return false, fmt.Errorf("captcha: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("captcha: siteverify HTTP %d", resp.StatusCode)
	}

	var out siteverifyResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return false, fmt.Errorf("captcha: deserializar respuesta: %w", err)
	}
	if !out.Success && len(out.ErrorCodes) > 0 {
		return false, fmt.Errorf("captcha: rechazado: %s", strings.Join(out.ErrorCodes, ","))
	}
	return out.Success, nil
}
