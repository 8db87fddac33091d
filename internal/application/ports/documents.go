package ports

import (
	"context"
	"io"

	"github.com/jhoicas/sibci-api/internal/domain/entity"
)

// DocumentStore guarda los documentos adjuntos de los bienes y devuelve la ruta relativa.
type DocumentStore interface {
	Save(ctx context.Context, assetID, filename string, r io.Reader) (path string, err error)
	// Open abre un documento guardado. domain.ErrNotFound si ya no existe.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Remove(path string) error
}

// ReportPDFGenerator genera la representación PDF de un reporte de falla.
type ReportPDFGenerator interface {
	GenerateReportPDF(ctx context.Context, report *entity.Report) ([]byte, error)
}
