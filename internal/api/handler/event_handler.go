package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/karmic/marketplace/internal/core/ports"
)

// EventHandler serves the audit trail. Routes using it are admin-only.
type EventHandler struct {
	events ports.EventRepository
}

func NewEventHandler(events ports.EventRepository) *EventHandler {
	return &EventHandler{events: events}
}

// ListByTask handles GET /v1/tasks/:task_number/events.
//
// @Summary      Audit trail of a task's lifecycle
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        task_number  path      string  true  "Task number"
// @Success      200          {object}  map[string][]taskEventResponse
// @Failure      401          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Router       /v1/tasks/{task_number}/events [get]
func (h *EventHandler) ListByTask(c echo.Context) error {
	if _, err := ctxActor(c); err != nil {
		return err
	}

	events, err := h.events.ListByTask(c.Request().Context(), c.Param("task_number"))
	if err != nil {
		return err
	}

	data := make([]taskEventResponse, 0, len(events))
	for _, ev := range events {
		data = append(data, taskEventResponse{
			Event:     ev.Event,
			ActorID:   ev.ActorID,
			From:      string(ev.From),
			To:        string(ev.To),
			Coins:     ev.Coins,
			XP:        ev.XP,
			Timestamp: ev.Timestamp,
		})
	}
	return c.JSON(http.StatusOK, map[string][]taskEventResponse{"data": data})
}
