package pdf

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sibci-api/internal/domain/entity"
)

func TestGenerateReportPDF(t *testing.T) {
	g := NewReportGenerator("")
	r := &entity.Report{
		ID: 42, Requester: "María Pérez", Department: "Prensa", Encargado: "jefe1",
		FaultType: "Impresora", Description: strings.Repeat("La impresora no responde. ", 20),
		Status: entity.ReportPending, CreatedAt: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
	}

	b, err := g.GenerateReportPDF(context.Background(), r)
	require.NoError(t, err)
	require.NotEmpty(t, b)
	assert.True(t, strings.HasPrefix(string(b), "%PDF"))
}

func TestWrapWords(t *testing.T) {
	lines := wrapWords("uno dos tres cuatro", 9)
	assert.Equal(t, []string{"uno dos", "tres", "cuatro"}, lines)

	lines = wrapWords("a\nb", 10)
	assert.Equal(t, []string{"a", "b"}, lines)

	lines = wrapWords("abcdefghij", 4)
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, lines)

	for _, l := range wrapWords(strings.Repeat("ñandú ", 50), 20) {
		assert.LessOrEqual(t, len([]rune(l)), 20)
	}
}
