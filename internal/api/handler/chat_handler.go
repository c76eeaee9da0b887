package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
	"github.com/cargoconnect/marketplace-api/internal/core/ports"
)

type ChatHandler struct {
	chat ports.ChatService
}

func NewChatHandler(chat ports.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type postMessageRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type postMessageResponse struct {
	Message *domain.ChatMessage `json:"message"`
	Warning string              `json:"warning,omitempty"`
}

// Post sends a message on the request's channel. When the moderation
// filter redacted contact data, the response carries a warning for the
// sender; the stored message is already sanitized.
//
// @Summary      Post a chat message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Request id"
// @Param        body  body      postMessageRequest  true  "Message"
// @Success      201   {object}  postMessageResponse
// @Failure      403   {object}  map[string]string
// @Router       /v1/requests/{id}/messages [post]
func (h *ChatHandler) Post(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req postMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.chat.Post(c.Request().Context(), actor, c.Param("id"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, postMessageResponse{
		Message: result.Message,
		Warning: result.Warning,
	})
}

// List returns the request's messages in order and marks the caller's
// unread ones as read.
//
// @Summary      List chat messages
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Request id"
// @Success      200  {array}  domain.ChatMessage
// @Failure      403  {object}  map[string]string
// @Router       /v1/requests/{id}/messages [get]
func (h *ChatHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	messages, err := h.chat.List(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messages)
}
