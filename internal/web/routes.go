package web

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nathfavour/pippin/pkg/chat"
)

const sessionKeyConversation = "conversation_id"

func (s *Server) registerRoutes() {
	s.App.Get("/", s.index)
	s.App.Get("/api/messages", s.listMessages)
	s.App.Post("/api/messages", s.sendMessage)
	s.App.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	UserMessage chat.Message `json:"user_message"`
	BotMessage  chat.Message `json:"bot_message"`
}

// conversation returns the session's conversation, starting one when the
// session is new or its conversation expired.
func (s *Server) conversation(c fiber.Ctx) *chat.Conversation {
	sess := session.FromContext(c)

	var id string
	if sess != nil {
		id, _ = sess.Get(sessionKeyConversation).(string)
	}
	if id != "" {
		if conv, err := s.conversations.Get(id); err == nil {
			s.conversations.Touch(id, s.Cfg.SessionTTL)
			return conv
		}
	}

	id = uuid.New().String()
	conv := chat.NewConversation(id, s.responder, s.persona.Greeting,
		chat.WithDelay(s.Cfg.Delay),
		chat.WithSleep(s.sleep),
	)
	s.conversations.Set(id, conv, s.Cfg.SessionTTL)
	if sess != nil {
		sess.Set(sessionKeyConversation, id)
	}
	return conv
}

func (s *Server) index(c fiber.Ctx) error {
	conv := s.conversation(c)
	return c.Render("index", fiber.Map{
		"Name":     s.persona.Name,
		"Messages": conv.Messages(),
	})
}

func (s *Server) listMessages(c fiber.Ctx) error {
	return jsonSuccess(c, s.conversation(c).Messages())
}

func (s *Server) sendMessage(c fiber.Ctx) error {
	var body sendMessageRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(body.Text) == "" {
		s.recorder.RecordBlank(surface)
		return c.SendStatus(fiber.StatusNoContent)
	}

	user, bot, ok := s.conversation(c).Submit(body.Text)
	if !ok {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return jsonSuccess(c, sendMessageResponse{UserMessage: user, BotMessage: bot})
}

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}
