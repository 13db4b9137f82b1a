package controller

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"rag-chatbot-be/internal/pkg/apperrors"
	"rag-chatbot-be/internal/pkg/serverutils"
	"rag-chatbot-be/internal/service"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
	jwtGuard        fiber.Handler
}

func NewDocumentController(documentService service.IDocumentService, jwtGuard fiber.Handler) IDocumentController {
	return &documentController{
		documentService: documentService,
		jwtGuard:        jwtGuard,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/documents")
	h.Use(c.jwtGuard)
	h.Post("/upload", c.Upload)
	h.Get("", c.List)
	h.Delete(":id", c.Delete)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return apperrors.Wrap(apperrors.KindValidation, "multipart field 'file' is required", err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.Wrap(apperrors.KindValidation, "failed to open uploaded file", err)
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "failed to read uploaded file", err)
	}

	res, err := c.documentService.Ingest(ctx.UserContext(), fileHeader.Filename, fileBytes)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Document indexed", res))
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	res, err := c.documentService.List(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Documents listed", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	res, err := c.documentService.Delete(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Document deleted", res))
}
