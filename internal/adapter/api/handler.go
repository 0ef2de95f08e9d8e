package api

import (
	"bufio"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"

	"learnify-core/internal/adapter/monitor"
	"learnify-core/internal/domain/entity"
	"learnify-core/internal/usecase"
)

type Handler struct {
	gateway  *usecase.Gateway
	pipeline *usecase.StreamPipeline
	metrics  *monitor.RingSink
}

func NewHandler(gateway *usecase.Gateway, pipeline *usecase.StreamPipeline, metrics *monitor.RingSink) *Handler {
	return &Handler{gateway: gateway, pipeline: pipeline, metrics: metrics}
}

// HandleAICall runs one feature request through the gateway. The gateway
// never fails, so this always answers 200 with an AIResponse envelope.
func (h *Handler) HandleAICall(c *fiber.Ctx) error {
	var payload entity.AIPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if !payload.Feature.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown feature"})
	}

	resp := h.gateway.CallAI(c.Context(), payload)
	return c.Status(fiber.StatusOK).JSON(resp)
}

type chatRequest struct {
	Query   string                    `json:"query"`
	History []entity.ConversationTurn `json:"history"`
}

// HandleChat returns a complete knowledge answer in one response.
func (h *Handler) HandleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil || req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	answer := h.pipeline.Answer(c.Context(), req.Query, req.History)
	return c.Status(fiber.StatusOK).JSON(answer)
}

// HandleChatStream relays pipeline events as server-sent events. The
// terminal event carries sources and confidence; client disconnects cancel
// the upstream read through the request context.
func (h *Handler) HandleChatStream(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil || req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	ctx := c.Context()
	events := h.pipeline.Stream(ctx, req.Query, req.History)

	ctx.SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		for ev := range events {
			data, err := json.Marshal(ev)
			if err != nil {
				log.WithError(err).Error("failed to encode stream event")
				return
			}
			if _, err := w.WriteString("data: " + string(data) + "\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				// Client went away; the request context cancellation stops
				// the pipeline.
				return
			}
		}
	}))
	return nil
}

// HandleMetrics returns the most recent call metrics, newest first.
func (h *Handler) HandleMetrics(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.metrics.Recent())
}
