package mail

import (
	"bufio"
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sibci-api/internal/application/ports"
	"github.com/jhoicas/sibci-api/pkg/config"
)

// fakeSMTP atiende una sola sesión SMTP sin TLS y guarda lo recibido.
type fakeSMTP struct {
	ln     net.Listener
	mu     sync.Mutex
	from   string
	rcpt   string
	data   string
	silent bool
}

func newFakeSMTP(t *testing.T, silent bool) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &fakeSMTP{ln: ln, silent: silent}
	t.Cleanup(func() { _ = ln.Close() })
	go s.serve()
	return s
}

func (s *fakeSMTP) port() int { return s.ln.Addr().(*net.TCPAddr).Port }

func (s *fakeSMTP) serve() {
	conn, err := s.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	if s.silent {
		time.Sleep(2 * time.Second)
		return
	}
	r := bufio.NewReader(conn)
	write := func(l string) { _, _ = conn.Write([]byte(l + "\r\n")) }
	write("220 localhost ESMTP")
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.TrimRight(line, "\r\n")
		upper := strings.ToUpper(cmd)
		switch {
		case strings.HasPrefix(upper, "EHLO"):
			write("250-localhost")
			write("250 AUTH PLAIN")
		case strings.HasPrefix(upper, "AUTH"):
			write("235 2.7.0 autenticado")
		case strings.HasPrefix(upper, "MAIL FROM:"):
			s.mu.Lock()
			s.from = cmd
			s.mu.Unlock()
			write("250 ok")
		case strings.HasPrefix(upper, "RCPT TO:"):
			s.mu.Lock()
			s.rcpt = cmd
			s.mu.Unlock()
			write("250 ok")
		case upper == "DATA":
			write("354 fin con .")
			var b strings.Builder
			for {
				l, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if l == ".\r\n" {
					break
				}
				b.WriteString(l)
			}
			s.mu.Lock()
			s.data = b.String()
			s.mu.Unlock()
			write("250 encolado")
		case upper == "QUIT":
			write("221 adiós")
			return
		default:
			write("502 no implementado")
		}
	}
}

func testConfig(port int) config.SMTPConfig {
	return config.SMTPConfig{
		Host: "127.0.0.1", Port: port, User: "sibci@example.com", Password: "secreto",
		AdminEmail: "soporte@example.com", Timeout: time.Second,
	}
}

func TestMailer_Send(t *testing.T) {
	srv := newFakeSMTP(t, false)
	m := NewMailer(testConfig(srv.port()), "")

	err := m.Send(context.Background(), ports.Notification{
		Subject: "Nuevo Reporte SIBCI: Red - Prensa",
		HTML:    "<p>Sin internet</p>",
		Text:    "Sin internet",
	})
	require.NoError(t, err)

	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Contains(t, srv.from, "sibci@example.com")
	assert.Contains(t, srv.rcpt, "soporte@example.com")
	assert.Contains(t, srv.data, "Subject: Nuevo Reporte SIBCI: Red - Prensa")
	assert.Contains(t, srv.data, "text/html")
}

func TestMailer_TimeoutServidorMudo(t *testing.T) {
	srv := newFakeSMTP(t, true)
	m := NewMailer(testConfig(srv.port()), "")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := m.Send(ctx, ports.Notification{Subject: "x", Text: "x"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestMailer_NoConfigurado(t *testing.T) {
	m := NewMailer(config.SMTPConfig{Host: "127.0.0.1", Port: 25}, "")
	assert.False(t, m.Enabled())
	assert.Error(t, m.Send(context.Background(), ports.Notification{Subject: "x"}))
}

func TestEnvInfo(t *testing.T) {
	info := EnvInfo(config.SMTPConfig{Host: "smtp.gmail.com", Port: 587, User: "u"})
	assert.True(t, info.EmailUserSet)
	assert.False(t, info.EmailPassSet)
	assert.False(t, info.AdminEmailSet)
	assert.Equal(t, 587, info.SMTPPort)
}
