package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sibci-api/internal/application/asset"
	"github.com/jhoicas/sibci-api/internal/application/dto"
)

// AssetHandler expone el flujo de solicitudes de bienes.
type AssetHandler struct {
	wf *asset.Workflow
}

// NewAssetHandler construye el handler de bienes.
func NewAssetHandler(wf *asset.Workflow) *AssetHandler {
	return &AssetHandler{wf: wf}
}

// List godoc
// @Summary      Listar bienes
// @Description  Un jefe ve los aprobados de sus departamentos y los que creó.
// @Tags         assets
// @Produce      json
// @Security     Bearer
// @Param        estado      query  string  false  "Operativo | Dañado | En Reparación"
// @Param        pendientes  query  bool    false  "solo no aprobados"
// @Success      200  {array}   dto.AssetResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/assets [get]
func (h *AssetHandler) List(c *fiber.Ctx) error {
	var q dto.AssetListQuery
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
// @Summary      Obtener bien
// @Tags         assets
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "Código del bien"
// @Success      200  {object}  dto.AssetResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assets/{id} [get]
func (h *AssetHandler) Get(c *fiber.Ctx) error {
	id, ok := pathParam(c, "id")
	if !ok {
		return badBody(c)
	}
	out, err := h.wf.Get(c.UserContext(), caller(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar bien
// @Description  Admin: queda aprobado. Jefe: queda pendiente en uno de sus departamentos.
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body      dto.CreateAssetRequest  true  "id/codigo, titulo/nombre, condicion, estado, ubicacion, valor, departamento"
// @Success      201   {object}  dto.AssetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/assets [post]
func (h *AssetHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAssetRequest
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
// @Summary      Actualizar bien
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path      string                  true  "Código del bien"
// @Param        body  body      dto.UpdateAssetRequest  true  "campos a modificar"
// @Success      200   {object}  dto.AssetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/assets/{id} [put]
func (h *AssetHandler) Update(c *fiber.Ctx) error {
	id, ok := pathParam(c, "id")
	if !ok {
		return badBody(c)
	}
	var in dto.UpdateAssetRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.wf.Update(c.UserContext(), caller(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar bien
// @Tags         assets
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "Código del bien"
// @Success      200  {object}  dto.AssetResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assets/{id}/approve [put]
func (h *AssetHandler) Approve(c *fiber.Ctx) error {
	id, ok := pathParam(c, "id")
	if !ok {
		return badBody(c)
	}
	out, err := h.wf.Approve(c.UserContext(), caller(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar bien
// @Tags         assets
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "Código del bien"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assets/{id} [delete]
func (h *AssetHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathParam(c, "id")
	if !ok {
		return badBody(c)
	}
	if err := h.wf.Delete(c.UserContext(), caller(c), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Bien eliminado"})
}

// Upload godoc
// @Summary      Adjuntar documento
// @Description  Reemplaza el documento anterior del bien. Solo admin o el creador.
// @Tags         assets
// @Accept       mpfd
// @Produce      json
// @Security     Bearer
// @Param        id    path      string  true  "Código del bien"
// @Param        file  formData  file    true  "Documento"
// @Success      200   {object}  dto.AssetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/assets/{id}/upload [post]
func (h *AssetHandler) Upload(c *fiber.Ctx) error {
	id, ok := pathParam(c, "id")
	if !ok {
		return badBody(c)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el campo file es requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()

	out, err := h.wf.AttachDocument(c.UserContext(), caller(c), id, fh.Filename, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Document godoc
// @Summary      Descargar documento
// @Description  Mismo alcance que GET /api/assets/{id}. 404 si el bien no tiene documento.
// @Tags         assets
// @Produce      octet-stream
// @Security     Bearer
// @Param        id   path  string  true  "Código del bien"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assets/{id}/document [get]
func (h *AssetHandler) Document(c *fiber.Ctx) error {
	id, ok := pathParam(c, "id")
	if !ok {
		return badBody(c)
	}
	rc, name, err := h.wf.Document(c.UserContext(), caller(c), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(name)
	// fasthttp cierra rc al terminar de enviar la respuesta
	return c.SendStream(rc)
}

// pathParam devuelve el parámetro de ruta sin escapes: "BN%20001" -> "BN 001".
func pathParam(c *fiber.Ctx, key string) (string, bool) {
	v, err := url.PathUnescape(c.Params(key))
	if err != nil {
		return "", false
	}
	return v, true
}
