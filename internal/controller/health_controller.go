package controller

import (
	"github.com/gofiber/fiber/v2"

	"rag-chatbot-be/internal/service"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	chatService service.IChatService
}

func NewHealthController(chatService service.IChatService) IHealthController {
	return &healthController{
		chatService: chatService,
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	res := c.chatService.Health(ctx.UserContext())

	status := fiber.StatusOK
	if res.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return ctx.Status(status).JSON(res)
}
