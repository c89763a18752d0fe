package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/exp-usinagem-api/internal/application/dto"
	"github.com/jhoicas/exp-usinagem-api/internal/domain"
)

var validate = newValidator()

// newValidator usa o nome JSON dos campos nas mensagens.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind lê o corpo JSON e valida as tags. Devolve false quando a resposta de erro já foi escrita.
func bind(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if err := validate.Struct(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(validationResponse(err))
	}
	return true, nil
}

func validationResponse(err error) dto.ErrorResponse {
	resp := dto.ErrorResponse{Code: "VALIDATION", Message: "dados inválidos"}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			resp.Details = append(resp.Details, dto.ValidationDetail{Field: e.Field(), Message: fieldMessage(e)})
		}
	}
	return resp
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "campo obrigatório"
	case "gt":
		return "deve ser maior que " + e.Param()
	case "gte":
		return "deve ser maior ou igual a " + e.Param()
	case "min":
		return "mínimo " + e.Param()
	case "max":
		return "máximo " + e.Param()
	case "oneof":
		return "deve ser um de: " + e.Param()
	default:
		return "valor inválido"
	}
}

// writeError traduz os erros de domínio para status HTTP.
func writeError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrOverdraw):
		return fiber.StatusConflict, "OVERDRAW"
	case errors.Is(err, domain.ErrOrderOverrun):
		return fiber.StatusConflict, "ORDER_OVERRUN"
	case errors.Is(err, domain.ErrStaleState):
		return fiber.StatusConflict, "STALE_STATE"
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrPersistence):
		return fiber.StatusInternalServerError, "PERSISTENCE"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}
