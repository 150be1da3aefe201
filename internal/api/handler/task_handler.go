package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/karmic/marketplace/internal/core/ports"
)

// TaskHandler handles HTTP requests for the task lifecycle.
type TaskHandler struct {
	tasks      ports.TaskService
	settlement ports.SettlementService
}

func NewTaskHandler(tasks ports.TaskService, settlement ports.SettlementService) *TaskHandler {
	return &TaskHandler{tasks: tasks, settlement: settlement}
}

// Create handles POST /v1/tasks.
//
// @Summary      Post a new task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createTaskRequest  true   "Task details"
// @Success      201              {object}  createTaskResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /v1/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.tasks.CreateTask(c.Request().Context(), ports.CreateTaskInput{
		RequesterID:    actorID,
		Title:          req.Title,
		Description:    req.Description,
		Difficulty:     req.Difficulty,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, createTaskResponse{
		TaskNumber:  result.TaskNumber,
		State:       result.State,
		RewardCoins: result.RewardCoins,
		RewardXP:    result.RewardXP,
		CreatedAt:   result.CreatedAt,
		Links:       linksFor(result.TaskNumber),
	})
}

// Get handles GET /v1/tasks/:task_number.
//
// @Summary      Get a task by task number
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        task_number  path      string  true  "Task number (e.g. KRM-7A8B9C2D)"
// @Success      200          {object}  getTaskResponse
// @Failure      404          {object}  errorResponse
// @Failure      500          {object}  errorResponse
// @Router       /v1/tasks/{task_number} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	if _, err := ctxActor(c); err != nil {
		return err
	}

	detail, err := h.tasks.GetTask(c.Request().Context(), c.Param("task_number"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toGetTaskResponse(detail))
}

// List handles GET /v1/tasks.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        state  query     string  false  "Filter by state"
// @Param        scope  query     string  false  "One of: feed, requested, helping"
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Page size (default 20, max 100)"
// @Success      200    {object}  listTasksResponse
// @Failure      401    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /v1/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.tasks.ListTasks(c.Request().Context(), ports.ListTasksInput{
		ActorID: actorID,
		State:   c.QueryParam("state"),
		Scope:   c.QueryParam("scope"),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	items := make([]taskSummaryResponse, 0, len(result.Items))
	for _, it := range result.Items {
		items = append(items, toTaskSummaryResponse(it))
	}
	return c.JSON(http.StatusOK, listTasksResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Claim handles POST /v1/tasks/:task_number/claim.
//
// @Summary      Claim an open task as helper
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        task_number  path      string  true  "Task number"
// @Success      200          {object}  transitionResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Failure      409          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Router       /v1/tasks/{task_number}/claim [post]
func (h *TaskHandler) Claim(c echo.Context) error {
	return h.transition(c, h.settlement.Claim, "claimed")
}

// Confirm handles POST /v1/tasks/:task_number/confirm.
//
// @Summary      Helper confirms the work is done
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        task_number  path      string  true  "Task number"
// @Success      200          {object}  transitionResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Router       /v1/tasks/{task_number}/confirm [post]
func (h *TaskHandler) Confirm(c echo.Context) error {
	return h.transition(c, h.settlement.HelperConfirm, "helper_confirmed")
}

// Approve handles POST /v1/tasks/:task_number/approve.
//
// @Summary      Requester approves and settles the task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        task_number  path      string  true  "Task number"
// @Success      200          {object}  settlementResponse
// @Failure      402          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Router       /v1/tasks/{task_number}/approve [post]
func (h *TaskHandler) Approve(c echo.Context) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	result, err := h.settlement.Approve(c.Request().Context(), ports.TransitionInput{
		TaskNumber: c.Param("task_number"),
		ActorID:    actorID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settlementResponse{
		TaskNumber:       result.TaskNumber,
		State:            "settled",
		RewardCoins:      result.RewardCoins,
		RewardXP:         result.RewardXP,
		RequesterBalance: result.RequesterBalance,
		HelperBalance:    result.HelperBalance,
		HelperXPTotal:    result.HelperXPTotal,
		HelperRank:       result.HelperRank,
	})
}

// Reject handles POST /v1/tasks/:task_number/reject.
//
// @Summary      Requester rejects the confirmed work
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        task_number  path      string  true  "Task number"
// @Success      200          {object}  transitionResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Router       /v1/tasks/{task_number}/reject [post]
func (h *TaskHandler) Reject(c echo.Context) error {
	return h.transition(c, h.settlement.Reject, "rejected")
}

// Cancel handles POST /v1/tasks/:task_number/cancel.
//
// @Summary      Requester cancels a task before confirmation
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        task_number  path      string  true  "Task number"
// @Success      200          {object}  transitionResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Router       /v1/tasks/{task_number}/cancel [post]
func (h *TaskHandler) Cancel(c echo.Context) error {
	return h.transition(c, h.settlement.Cancel, "cancelled")
}

// transition runs the shared shape of the simple lifecycle endpoints: extract
// the actor, call the settlement method, report the resulting state.
func (h *TaskHandler) transition(c echo.Context, fn func(context.Context, ports.TransitionInput) error, newState string) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	taskNumber := c.Param("task_number")
	if err := fn(c.Request().Context(), ports.TransitionInput{
		TaskNumber: taskNumber,
		ActorID:    actorID,
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transitionResponse{
		TaskNumber: taskNumber,
		State:      newState,
	})
}
