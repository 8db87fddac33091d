package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sibci-api/internal/application/dto"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// bindJSON parsea el body y valida las etiquetas `validate` del DTO.
// Si algo falla ya respondió y devuelve ok=false.
func bindJSON(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, badBody(c)
	}
	if err := validate.Struct(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: validationMessage(err),
		})
	}
	return true, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" es requerido")
		case "min":
			parts = append(parts, fmt.Sprintf("%s debe tener al menos %s caracteres", field, fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s admite a lo sumo %s caracteres", field, fe.Param()))
		case "email":
			parts = append(parts, field+" no es un email válido")
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s debe ser uno de: %s", field, fe.Param()))
		default:
			parts = append(parts, field+" inválido")
		}
	}
	return strings.Join(parts, "; ")
}
