package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/certifyai/certify-backend/internal/assistant"
	"github.com/certifyai/certify-backend/internal/model"
	"github.com/certifyai/certify-backend/internal/response"
	"github.com/certifyai/certify-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// apologyFragment is appended when the upstream stream breaks mid-response.
// The partial text already sent stays valid.
const apologyFragment = "\n\nI apologize, but I encountered an error. Please try asking your question again."

// ChatHandler streams study-assistant replies as chunked plain text.
type ChatHandler struct {
	streamer assistant.Streamer
	log      zerolog.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(streamer assistant.Streamer, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		streamer: streamer,
		log:      log.With().Str("component", "chat_handler").Logger(),
	}
}

// Chat godoc
// POST /api/v1/chat
// Streams the assistant's reply as text/plain chunks. Errors before the first
// fragment produce a JSON error; errors after it append an apology to the
// already-flushed text.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	stream, err := h.streamer.Stream(c.Request.Context(), &req)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to open assistant stream")
		response.Fail(c, http.StatusBadGateway, response.ErrUpstreamStream)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	flusher, canFlush := c.Writer.(http.Flusher)

	for {
		fragment, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			h.log.Warn().Err(err).Msg("assistant stream broke mid-response")
			c.Writer.WriteString(apologyFragment)
			return
		}

		if _, err := c.Writer.WriteString(fragment); err != nil {
			// Client went away.
			return
		}
		if canFlush {
			flusher.Flush()
		}
	}
}
