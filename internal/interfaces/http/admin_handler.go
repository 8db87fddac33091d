package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sibci-api/internal/application/dto"
	"github.com/jhoicas/sibci-api/internal/application/ticket"
	"github.com/jhoicas/sibci-api/internal/application/usecase"
)

// UserHandler gestiona usuarios.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler de usuarios.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Produce      json
// @Security     Bearer
// @Success      200  {array}   dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), caller(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear usuario
// @Description  Un admin solo puede crear jefes. Un jefe con departamento queda como su encargado.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body      dto.CreateUserRequest  true  "username, password, nombre, email, rol, departamento"
// @Success      201   {object}  dto.CreateUserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), caller(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete godoc
// @Summary      Eliminar usuario
// @Tags         users
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "ID del usuario"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathParam(c, "id")
	if !ok {
		return badBody(c)
	}
	if err := h.uc.Delete(c.UserContext(), caller(c), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Usuario eliminado"})
}

// DepartmentHandler gestiona departamentos y sus encargados.
type DepartmentHandler struct {
	uc *usecase.DepartmentUseCase
}

// NewDepartmentHandler construye el handler de departamentos.
func NewDepartmentHandler(uc *usecase.DepartmentUseCase) *DepartmentHandler {
	return &DepartmentHandler{uc: uc}
}

// List godoc
// @Summary      Listar departamentos
// @Tags         departments
// @Produce      json
// @Security     Bearer
// @Success      200  {array}  dto.DepartmentResponse
// @Router       /api/departments [get]
func (h *DepartmentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), caller(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Upsert godoc
// @Summary      Crear o actualizar departamento
// @Tags         departments
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body      dto.UpsertDepartmentRequest  true  "name, encargado"
// @Success      200   {object}  dto.UpsertDepartmentResponse
// @Success      201   {object}  dto.UpsertDepartmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/departments [post]
func (h *DepartmentHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertDepartmentRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Upsert(c.UserContext(), caller(c), in)
	if err != nil {
		return writeError(c, err)
	}
	status := fiber.StatusOK
	if out.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}

// Delete godoc
// @Summary      Eliminar departamento
// @Tags         departments
// @Produce      json
// @Security     Bearer
// @Param        name  path      string  true  "Nombre del departamento"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/departments/{name} [delete]
func (h *DepartmentHandler) Delete(c *fiber.Ctx) error {
	name, ok := pathParam(c, "name")
	if !ok {
		return badBody(c)
	}
	if err := h.uc.Delete(c.UserContext(), caller(c), name); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Departamento eliminado"})
}

// MailHandler expone el diagnóstico de correo.
type MailHandler struct {
	diag *ticket.MailDiagnostics
}

// NewMailHandler construye el handler de diagnóstico.
func NewMailHandler(diag *ticket.MailDiagnostics) *MailHandler {
	return &MailHandler{diag: diag}
}

// Test godoc
// @Summary      Probar correo
// @Description  Informa qué variables de correo están definidas e intenta un envío al administrador.
// @Tags         mail
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  dto.MailDiagnosticResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/mail/test [get]
func (h *MailHandler) Test(c *fiber.Ctx) error {
	out, err := h.diag.Run(c.UserContext(), caller(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
