package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/domain"
)

// Kinds de error estables para clientes.
const (
	KindValidation         = "VALIDATION"
	KindMissingField       = "MISSING_FIELD"
	KindInvalidState       = "INVALID_STATE"
	KindAlreadyValidated   = "ALREADY_VALIDATED"
	KindInsufficientStock  = "INSUFFICIENT_STOCK"
	KindNotFound           = "NOT_FOUND"
	KindDuplicate          = "DUPLICATE"
	KindDuplicateReference = "DUPLICATE_REFERENCE"
	KindEmailExists        = "EMAIL_EXISTS"
	KindUnauthorized       = "UNAUTHORIZED"
	KindForbidden          = "FORBIDDEN"
	KindInvalidBody        = "INVALID_BODY"
	KindUnexpected         = "UNEXPECTED"
)

// writeError traduce un error de dominio a status HTTP + ErrorResponse. Único punto de mapeo.
func writeError(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error inesperado")
	}
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	var (
		ise *domain.InsufficientStockError
		mfe *domain.MissingFieldError
		fe  *fiber.Error
	)
	switch {
	case errors.As(err, &ise):
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Kind:    KindInsufficientStock,
			Message: ise.Error(),
			Details: map[string]any{
				"product_id":   ise.ProductID,
				"product_name": ise.ProductName,
				"available":    ise.Available,
				"requested":    ise.Requested,
			},
		}
	case errors.As(err, &mfe):
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Kind: KindMissingField, Message: mfe.Error(), Details: map[string]any{"field": mfe.Field},
		}
	case errors.Is(err, domain.ErrAlreadyValidated):
		return fiber.StatusBadRequest, dto.ErrorResponse{Kind: KindAlreadyValidated, Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidState):
		return fiber.StatusBadRequest, dto.ErrorResponse{Kind: KindInvalidState, Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Kind: KindValidation, Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Kind: KindNotFound, Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicateReference):
		return fiber.StatusConflict, dto.ErrorResponse{Kind: KindDuplicateReference, Message: err.Error()}
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, dto.ErrorResponse{Kind: KindEmailExists, Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Kind: KindDuplicate, Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Kind: KindUnauthorized, Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Kind: KindForbidden, Message: err.Error()}
	case errors.As(err, &fe):
		return fe.Code, dto.ErrorResponse{Kind: kindForStatus(fe.Code), Message: fe.Message}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Kind: KindUnexpected, Message: "error interno"}
	}
}

func kindForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return KindNotFound
	case fiber.StatusUnauthorized:
		return KindUnauthorized
	case fiber.StatusForbidden:
		return KindForbidden
	case fiber.StatusInternalServerError:
		return KindUnexpected
	default:
		return KindValidation
	}
}

// ErrorHandler para fiber.Config: errores que no pasaron por writeError (rutas inexistentes, panics recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Kind: KindInvalidBody, Message: "cuerpo inválido"})
}
