package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/karmic/marketplace/internal/core/ports"
)

// ChatHandler serves the per-task message channel between requester and helper.
type ChatHandler struct {
	chat ports.ChatService
}

func NewChatHandler(chat ports.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Post handles POST /v1/tasks/:task_number/messages.
//
// @Summary      Send a message on a task channel
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        task_number  path      string              true  "Task number"
// @Param        body         body      postMessageRequest  true  "Message content"
// @Success      201          {object}  messageResponse
// @Failure      400          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Router       /v1/tasks/{task_number}/messages [post]
func (h *ChatHandler) Post(c echo.Context) error {
	actorID, err := ctxActor(c)
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

	msg, err := h.chat.Post(c.Request().Context(), c.Param("task_number"), actorID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toMessageResponse(*msg))
}

// List handles GET /v1/tasks/:task_number/messages.
//
// @Summary      Read the message transcript of a task
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        task_number  path      string  true  "Task number"
// @Success      200          {object}  listMessagesResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /v1/tasks/{task_number}/messages [get]
func (h *ChatHandler) List(c echo.Context) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	msgs, err := h.chat.List(c.Request().Context(), c.Param("task_number"), actorID)
	if err != nil {
		return err
	}

	data := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		data = append(data, toMessageResponse(m))
	}
	return c.JSON(http.StatusOK, listMessagesResponse{Data: data})
}

func toMessageResponse(m ports.MessageView) messageResponse {
	return messageResponse{
		ID:         m.ID,
		TaskNumber: m.TaskNumber,
		SenderID:   m.SenderID,
		Content:    m.Content,
		SentAt:     m.SentAt,
	}
}
