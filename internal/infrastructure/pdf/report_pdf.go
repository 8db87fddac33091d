// Package pdf genera la constancia imprimible de un reporte de soporte técnico.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: SIBCI + título        │  N° Reporte + Fecha        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Solicitante / Departamento / Encargado / Falla      │
//	│  ESTADO                                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESCRIPCIÓN (una fila por línea)                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el N° de reporte + leyenda                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/sibci-api/internal/application/ports"
	"github.com/jhoicas/sibci-api/internal/domain/entity"
)

var _ ports.ReportPDFGenerator = (*ReportGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorOK      = &props.Color{Red: 20, Green: 120, Blue: 60}
	colorPending = &props.Color{Red: 190, Green: 110, Blue: 0}
)

// descriptionWidth caracteres por línea de la descripción a tamaño 9.
const descriptionWidth = 95

// ReportGenerator implementa ports.ReportPDFGenerator usando Maroto v2.
type ReportGenerator struct {
	org string
}

// NewReportGenerator construye el generador. org aparece en el encabezado.
func NewReportGenerator(org string) *ReportGenerator {
	if org == "" {
		org = "SIBCI"
	}
	return &ReportGenerator{org: org}
}

// GenerateReportPDF renderiza los campos actuales del reporte.
func (g *ReportGenerator) GenerateReportPDF(_ context.Context, r *entity.Report) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Reporte %d", r.ID), true).
		WithAuthor(g.org, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(
		fieldRow("Solicitante", r.Requester),
		fieldRow("Departamento", r.Department),
		fieldRow("Encargado", nonEmpty(r.Encargado, "—")),
		fieldRow("Tipo de falla", r.FaultType),
		statusRow(r.Status),
	)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(7).Add(col.New(12).Add(
		text.New("DESCRIPCIÓN", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	)))
	for _, l := range wrapWords(nonEmpty(r.Description, "Sin descripción."), descriptionWidth) {
		m.AddRows(row.New(5).Add(col.New(12).Add(text.New(l, props.Text{Size: 9, Top: 0.5}))))
	}
	m.AddRows(line.NewRow(4))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *ReportGenerator) headerRow(r *entity.Report) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.org, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New("Reporte de Soporte Técnico", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("N° %d", r.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Fecha de registro: "+r.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func fieldRow(label, value string) core.Row {
	return row.New(7).Add(
		col.New(3).Add(text.New(label+":", props.Text{Style: fontstyle.Bold, Size: 9, Top: 1.5})),
		col.New(9).Add(text.New(value, props.Text{Size: 9, Top: 1.5})),
	)
}

func statusRow(s entity.ReportStatus) core.Row {
	color := colorPending
	if s == entity.ReportResolved {
		color = colorOK
	}
	return row.New(8).Add(
		col.New(3).Add(text.New("Estado:", props.Text{Style: fontstyle.Bold, Size: 9, Top: 2})),
		col.New(9).Add(text.New(strings.ToUpper(string(s)), props.Text{
			Style: fontstyle.Bold, Size: 10, Top: 1.5, Color: color,
		})),
	)
}

func footerRow(r *entity.Report) core.Row {
	return row.New(32).Add(
		col.New(3).Add(code.NewQr(fmt.Sprintf("SIBCI-REPORTE-%d", r.ID), props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Constancia generada por el sistema SIBCI.", props.Text{
				Size: 8, Top: 6, Left: 3, Color: colorGray,
			}),
			text.New("Conserve este documento como soporte del reporte.", props.Text{
				Size: 8, Top: 12, Left: 3, Color: colorGray,
			}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// wrapWords parte s en líneas de a lo sumo width runas sin cortar palabras,
// salvo que una palabra sola exceda el ancho. Respeta los saltos de línea.
func wrapWords(s string, width int) []string {
	var out []string
	for _, para := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		cur := ""
		for _, w := range words {
			for len([]rune(w)) > width {
				if cur != "" {
					out = append(out, cur)
					cur = ""
				}
				rs := []rune(w)
				out = append(out, string(rs[:width]))
				w = string(rs[width:])
			}
			switch {
			case cur == "":
				cur = w
			case len([]rune(cur))+1+len([]rune(w)) <= width:
				cur += " " + w
			default:
				out = append(out, cur)
				cur = w
			}
		}
		if cur != "" {
			out = append(out, cur)
		}
	}
	return out
}
