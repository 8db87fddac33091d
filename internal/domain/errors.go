package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrInvalidCredentials  = errors.New("usuario o contraseña incorrectos")
	ErrCaptchaFailed       = errors.New("verificación reCAPTCHA fallida")
	ErrUnauthorized        = errors.New("no autenticado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrSelfDelete          = errors.New("no puede eliminar su propio usuario")
	ErrNotDepartmentHead   = errors.New("el usuario no es encargado de ningún departamento")
	ErrDepartmentNotFound  = errors.New("departamento no encontrado")
	ErrNoEncargadoAssigned = errors.New("el departamento no tiene un encargado asignado")
	ErrRegistrationOff     = errors.New("el registro público está deshabilitado")
)
