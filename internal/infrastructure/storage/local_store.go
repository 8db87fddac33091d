// Package storage guarda los documentos adjuntos de los bienes en disco local.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/sibci-api/internal/application/ports"
	"github.com/jhoicas/sibci-api/internal/domain"
)

var _ ports.DocumentStore = (*LocalStore)(nil)

const maxNameLen = 80

// LocalStore escribe en dir/<unixnanos>-<uuid>-<nombre saneado> y devuelve esa ruta relativa.
type LocalStore struct {
	dir      string
	maxBytes int64
	now      func() time.Time
}

// NewLocalStore crea el directorio si no existe. maxBytes <= 0 no limita el tamaño.
func NewLocalStore(dir string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear %s: %w", dir, err)
	}
	return &LocalStore{dir: dir, maxBytes: maxBytes, now: time.Now}, nil
}

// Save copia r a un archivo nuevo. Si falla a mitad de escritura el archivo parcial se elimina.
func (s *LocalStore) Save(ctx context.Context, assetID, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := strconv.FormatInt(s.now().UnixNano(), 10) + "-" + uuid.NewString() + "-" + SanitizeFilename(filename)
	full := filepath.Join(s.dir, name)

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: crear archivo para %s: %w", assetID, err)
	}
	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxBytes > 0 && n > s.maxBytes {
		err = fmt.Errorf("storage: el archivo supera %d bytes", s.maxBytes)
	}
	if err != nil {
		_ = os.Remove(full)
		return "", err
	}
	return name, nil
}

// Open abre un documento para lectura. Solo se resuelven nombres dentro de dir.
func (s *LocalStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := baseName(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("storage: abrir %s: %w", clean, err)
	}
	return f, nil
}

// Remove elimina un documento. Un archivo ya inexistente no es error.
func (s *LocalStore) Remove(path string) error {
	clean, err := baseName(path)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, clean)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: eliminar %s: %w", clean, err)
	}
	return nil
}

func baseName(path string) (string, error) {
	clean := filepath.Base(filepath.Clean(path))
	if clean == "." || clean == ".." || clean == string(filepath.Separator) {
		return "", fmt.Errorf("storage: ruta inválida %q", path)
	}
	return clean, nil
}

// SanitizeFilename quita tildes y directorios y deja solo [A-Za-z0-9._-].
// "Factura Nº 12 (copia).pdf" -> "Factura_N_12_copia.pdf".
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err == nil {
		name = folded
	}

	var b strings.Builder
	lastUnderscore := false
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-'):
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteRune('_')
			lastUnderscore = true
		}
	}
	out := strings.Trim(b.String(), "._")
	out = strings.ReplaceAll(out, "_.", ".")
	if out == "" {
		out = "documento"
	}
	if len(out) > maxNameLen {
		ext := filepath.Ext(out)
		if len(ext) > 10 {
			ext = ""
		}
		out = out[:maxNameLen-len(ext)] + ext
	}
	return out
}
