package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sibci-api/internal/domain"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"Factura Nº 12 (copia).pdf": "Factura_N_12_copia.pdf",
		"../../etc/passwd":          "passwd",
		`C:\docs\acta régimen.PDF`:  "acta_regimen.PDF",
		"año-2024.xlsx":             "ano-2024.xlsx",
		"???":                       "documento",
		"":                          "documento",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), in)
	}

	long := SanitizeFilename(strings.Repeat("a", 200) + ".pdf")
	assert.LessOrEqual(t, len(long), maxNameLen)
	assert.True(t, strings.HasSuffix(long, ".pdf"))
}

func TestLocalStore_SaveRemove(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, 1024)
	require.NoError(t, err)
	ctx := context.Background()

	p1, err := s.Save(ctx, "BN-001", "acta.pdf", strings.NewReader("contenido"))
	require.NoError(t, err)
	p2, err := s.Save(ctx, "BN-001", "acta.pdf", strings.NewReader("contenido"))
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)
	assert.True(t, strings.HasSuffix(p1, "-acta.pdf"))

	b, err := os.ReadFile(filepath.Join(dir, p1))
	require.NoError(t, err)
	assert.Equal(t, "contenido", string(b))

	require.NoError(t, s.Remove(p1))
	_, err = os.Stat(filepath.Join(dir, p1))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, s.Remove(p1), "eliminar dos veces no falla")
}

func TestLocalStore_LimiteDeTamano(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, 4)
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "BN-001", "grande.bin", strings.NewReader("12345"))
	require.Error(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStore_Open(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, 1024)
	require.NoError(t, err)
	ctx := context.Background()

	p, err := s.Save(ctx, "BN-001", "acta.pdf", strings.NewReader("contenido"))
	require.NoError(t, err)

	rc, err := s.Open(ctx, p)
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "contenido", string(b))

	// una ruta con directorios se resuelve por su nombre base dentro de dir
	rc, err = s.Open(ctx, "../../"+p)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	require.NoError(t, s.Remove(p))
	_, err = s.Open(ctx, p)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Open(ctx, "..")
	assert.Error(t, err)
}
