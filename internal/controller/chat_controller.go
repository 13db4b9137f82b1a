package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"rag-chatbot-be/internal/dto"
	"rag-chatbot-be/internal/pkg/apperrors"
	"rag-chatbot-be/internal/pkg/logger"
	"rag-chatbot-be/internal/pkg/serverutils"
	"rag-chatbot-be/internal/service"
)

const streamTimeout = 5 * time.Minute

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	ChatStream(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService     service.IChatService
	logger          logger.ILogger
	enableStreaming bool
}

func NewChatController(chatService service.IChatService, l logger.ILogger, enableStreaming bool) IChatController {
	return &chatController{
		chatService:     chatService,
		logger:          l,
		enableStreaming: enableStreaming,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("", c.Chat)
	h.Post("/stream", c.ChatStream)
	h.Get("/ws", c.upgradeRequired, websocket.New(c.chatWs))
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	req, err := c.parseRequest(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatService.Answer(ctx.UserContext(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

// ChatStream answers over SSE: delta events while the model generates, one
// final event with the normalized response. When streaming is disabled the
// buffered answer is sent as a single final event so clients keep working.
func (c *chatController) ChatStream(ctx *fiber.Ctx) error {
	req, err := c.parseRequest(ctx)
	if err != nil {
		return err
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")

	enableStreaming := c.enableStreaming
	chatService := c.chatService
	log := c.logger

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		// The request context dies when the handler returns; the stream
		// writer runs after that, so it gets its own deadline.
		streamCtx, cancel := context.WithTimeout(context.Background(), streamTimeout)
		defer cancel()

		var res *dto.ChatResponse
		var runErr error
		if enableStreaming {
			res, runErr = chatService.AnswerStream(streamCtx, req, &sseSink{w: w})
		} else {
			res, runErr = chatService.Answer(streamCtx, req)
		}

		if runErr != nil {
			log.Error("chat_controller", "stream pipeline failed", map[string]interface{}{
				"error": runErr.Error(),
			})
			writeSSE(w, "error", serverutils.ErrorBody{
				Kind:    string(apperrors.KindOf(runErr)),
				Message: apperrors.MessageOf(runErr),
			})
			return
		}

		writeSSE(w, "final", res)
	}))

	return nil
}

type sseSink struct {
	w *bufio.Writer
}

func (s *sseSink) OnDelta(delta string) error {
	return writeSSE(s.w, "delta", fiber.Map{"delta": delta})
}

func writeSSE(w *bufio.Writer, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}

func (c *chatController) upgradeRequired(ctx *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(ctx) {
		return ctx.Next()
	}
	return fiber.ErrUpgradeRequired
}

type wsFrame struct {
	Type     string            `json:"type"`
	Content  string            `json:"content,omitempty"`
	Response *dto.ChatResponse `json:"response,omitempty"`
	Kind     string            `json:"kind,omitempty"`
	Message  string            `json:"message,omitempty"`
}

type wsSink struct {
	conn *websocket.Conn
}

func (s *wsSink) OnDelta(delta string) error {
	return s.conn.WriteJSON(wsFrame{Type: "delta", Content: delta})
}

// chatWs serves one chat request per inbound message on a persistent socket.
func (c *chatController) chatWs(conn *websocket.Conn) {
	defer conn.Close()

	connId := uuid.NewString()
	c.logger.Info("chat_controller", "websocket client connected", map[string]interface{}{
		"connection_id": connId,
	})
	defer c.logger.Info("chat_controller", "websocket client disconnected", map[string]interface{}{
		"connection_id": connId,
	})

	for {
		var req dto.ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}

		if err := serverutils.ValidateRequest(req); err != nil {
			c.writeWsError(conn, err)
			continue
		}

		streamCtx, cancel := context.WithTimeout(context.Background(), streamTimeout)

		var res *dto.ChatResponse
		var err error
		if c.enableStreaming {
			res, err = c.chatService.AnswerStream(streamCtx, &req, &wsSink{conn: conn})
		} else {
			res, err = c.chatService.Answer(streamCtx, &req)
		}
		cancel()

		if err != nil {
			c.writeWsError(conn, err)
			continue
		}

		if err := conn.WriteJSON(wsFrame{Type: "final", Response: res}); err != nil {
			return
		}
	}
}

func (c *chatController) writeWsError(conn *websocket.Conn, err error) {
	frame := wsFrame{
		Type:    "error",
		Kind:    string(apperrors.KindOf(err)),
		Message: apperrors.MessageOf(err),
	}
	if writeErr := conn.WriteJSON(frame); writeErr != nil {
		c.logger.Warn("chat_controller", "failed to write ws error frame", map[string]interface{}{
			"error": writeErr.Error(),
		})
	}
}

func (c *chatController) parseRequest(ctx *fiber.Ctx) (*dto.ChatRequest, error) {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "invalid request body", err)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	return &req, nil
}
