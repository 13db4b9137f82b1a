package serverutils

import (
	"github.com/gofiber/fiber/v2"

	"rag-chatbot-be/internal/pkg/apperrors"
)

// ErrorHandlerMiddleware translates errors bubbled up from controllers into
// a JSON envelope with the status code matching the error kind.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if fiberErr, ok := err.(*fiber.Error); ok {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse("http", fiberErr.Message))
		}

		kind := apperrors.KindOf(err)
		return ctx.Status(StatusForKind(kind)).JSON(ErrorResponse(string(kind), apperrors.MessageOf(err)))
	}
}

func StatusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return fiber.StatusBadRequest
	case apperrors.KindSizeLimit:
		return fiber.StatusRequestEntityTooLarge
	case apperrors.KindConfigurationConflict:
		return fiber.StatusConflict
	case apperrors.KindExtractionUnavailable, apperrors.KindEmbeddingService, apperrors.KindRetrievalUnavailable:
		return fiber.StatusServiceUnavailable
	case apperrors.KindExtractionService, apperrors.KindGeneration:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
