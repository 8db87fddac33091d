package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sibci-api/internal/application/dto"
	"github.com/jhoicas/sibci-api/internal/application/ticket"
)

// ReportHandler expone los reportes de fallas.
type ReportHandler struct {
	wf *ticket.Workflow
}

// NewReportHandler construye el handler de reportes.
func NewReportHandler(wf *ticket.Workflow) *ReportHandler {
	return &ReportHandler{wf: wf}
}

func reportID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
}

// List godoc
// @Summary      Listar reportes
// @Description  Más recientes primero. Un jefe solo ve los de sus departamentos.
// @Tags         reports
// @Produce      json
// @Security     Bearer
// @Param        estado  query  string  false  "Pendiente | Resuelto"
// @Success      200  {array}   dto.ReportResponse
// @Router       /api/reports [get]
func (h *ReportHandler) List(c *fiber.Ctx) error {
	var q dto.ReportListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.wf.List(c.UserContext(), caller(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener reporte
// @Tags         reports
// @Produce      json
// @Security     Bearer
// @Param        id   path      int  true  "ID del reporte"
// @Success      200  {object}  dto.ReportResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/{id} [get]
func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id, ok := reportID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.wf.Get(c.UserContext(), caller(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear reporte de falla
// @Description  Copia el encargado del departamento y notifica por correo al administrador.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body      dto.CreateReportRequest  true  "solicitante, departamento, tipo_falla, descripcion"
// @Success      201   {object}  dto.CreateReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports [post]
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReportRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.wf.Create(c.UserContext(), caller(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Cambiar estado
// @Description  Con {estado} lo fija; con cuerpo vacío alterna Pendiente/Resuelto.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path      int                      true   "ID del reporte"
// @Param        body  body      dto.UpdateReportRequest  false  "estado"
// @Success      200   {object}  dto.ReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/reports/{id} [put]
func (h *ReportHandler) Update(c *fiber.Ctx) error {
	id, ok := reportID(c)
	if !ok {
		return invalidID(c)
	}
	var in dto.UpdateReportRequest
	if len(c.Body()) > 0 {
		if ok, err := bindJSON(c, &in); !ok {
			return err
		}
	}
	var (
		out *dto.ReportResponse
		err error
	)
	if in.Status == "" {
		out, err = h.wf.Toggle(c.UserContext(), caller(c), id)
	} else {
		out, err = h.wf.SetStatus(c.UserContext(), caller(c), id, in.Status)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Toggle godoc
// @Summary      Alternar estado
// @Tags         reports
// @Produce      json
// @Security     Bearer
// @Param        id   path      int  true  "ID del reporte"
// @Success      200  {object}  dto.ReportResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/{id}/toggle [put]
func (h *ReportHandler) Toggle(c *fiber.Ctx) error {
	id, ok := reportID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.wf.Toggle(c.UserContext(), caller(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar reporte
// @Tags         reports
// @Produce      json
// @Security     Bearer
// @Param        id   path      int  true  "ID del reporte"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/{id} [delete]
func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	id, ok := reportID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.wf.Delete(c.UserContext(), caller(c), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Reporte eliminado"})
}

// PDF godoc
// @Summary      Exportar reporte a PDF
// @Tags         reports
// @Produce      application/pdf
// @Security     Bearer
// @Param        id   path  int  true  "ID del reporte"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/{id}/pdf [get]
func (h *ReportHandler) PDF(c *fiber.Ctx) error {
	id, ok := reportID(c)
	if !ok {
		return invalidID(c)
	}
	b, name, err := h.wf.ExportPDF(c.UserContext(), caller(c), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(b)
}
