package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/karmic/marketplace/internal/core/ports"
)

// UserHandler serves the authenticated profile and the XP leaderboard.
type UserHandler struct {
	users       ports.UserRepository
	leaderboard ports.LeaderboardService
}

func NewUserHandler(users ports.UserRepository, leaderboard ports.LeaderboardService) *UserHandler {
	return &UserHandler{users: users, leaderboard: leaderboard}
}

// Me handles GET /v1/me.
//
// @Summary      Get the authenticated user's profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	user, err := h.users.FindByID(c.Request().Context(), actorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{
		ID:          user.ID,
		Username:    user.Username,
		CoinBalance: user.CoinBalance,
		XPTotal:     user.XPTotal,
		Rank:        string(user.Rank),
	})
}

// Leaderboard handles GET /v1/leaderboard.
//
// @Summary      Top users by accumulated XP
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Number of entries (default 10, max 100)"
// @Success      200    {object}  leaderboardResponse
// @Failure      401    {object}  errorResponse
// @Router       /v1/leaderboard [get]
func (h *UserHandler) Leaderboard(c echo.Context) error {
	if _, err := ctxActor(c); err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries, err := h.leaderboard.Top(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	data := make([]leaderboardEntryResponse, 0, len(entries))
	for _, e := range entries {
		data = append(data, leaderboardEntryResponse{
			UserID:   e.UserID,
			Username: e.Username,
			XPTotal:  e.XPTotal,
			Rank:     e.Rank,
		})
	}
	return c.JSON(http.StatusOK, leaderboardResponse{Data: data})
}
