package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createTaskRequest struct {
	Title       string `json:"title"       validate:"required,max=100"`
	Description string `json:"description" validate:"required"`
	Difficulty  string `json:"difficulty"  validate:"required,oneof=easy medium hard"`
}

type postMessageRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// --- Response types ---
// Response-only types owned by the transport layer. These are intentionally
// separate from ports/domain types so the JSON contract is not coupled to
// internal service changes.

type taskLinks struct {
	Self     string `json:"self"`
	Messages string `json:"messages"`
}

type createTaskResponse struct {
	TaskNumber  string    `json:"task_number"`
	State       string    `json:"state"`
	RewardCoins int       `json:"reward_coins"`
	RewardXP    int       `json:"reward_xp"`
	CreatedAt   time.Time `json:"created_at"`
	Links       taskLinks `json:"_links"`
}

type stateHistoryItemResponse struct {
	State     string    `json:"state"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

type getTaskResponse struct {
	TaskNumber   string                     `json:"task_number"`
	RequesterID  string                     `json:"requester_id"`
	HelperID     string                     `json:"helper_id,omitempty"`
	Title        string                     `json:"title"`
	Description  string                     `json:"description"`
	Difficulty   string                     `json:"difficulty"`
	RewardCoins  int                        `json:"reward_coins"`
	RewardXP     int                        `json:"reward_xp"`
	State        string                     `json:"state"`
	CreatedAt    time.Time                  `json:"created_at"`
	StateHistory []stateHistoryItemResponse `json:"state_history"`
	Links        taskLinks                  `json:"_links"`
}

// taskSummaryResponse is the lightweight item used in list responses. It
// intentionally omits description and state_history to keep payloads small.
type taskSummaryResponse struct {
	TaskNumber  string    `json:"task_number"`
	RequesterID string    `json:"requester_id"`
	HelperID    string    `json:"helper_id,omitempty"`
	Title       string    `json:"title"`
	Difficulty  string    `json:"difficulty"`
	RewardCoins int       `json:"reward_coins"`
	RewardXP    int       `json:"reward_xp"`
	State       string    `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
	Links       taskLinks `json:"_links"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listTasksResponse struct {
	Data       []taskSummaryResponse `json:"data"`
	Pagination paginationResponse    `json:"pagination"`
}

type settlementResponse struct {
	TaskNumber       string `json:"task_number"`
	State            string `json:"state"`
	RewardCoins      int    `json:"reward_coins"`
	RewardXP         int    `json:"reward_xp"`
	RequesterBalance int    `json:"requester_balance"`
	HelperBalance    int    `json:"helper_balance"`
	HelperXPTotal    int    `json:"helper_xp_total"`
	HelperRank       string `json:"helper_rank"`
}

type transitionResponse struct {
	TaskNumber string `json:"task_number"`
	State      string `json:"state"`
}

type messageResponse struct {
	ID         string    `json:"id"`
	TaskNumber string    `json:"task_number"`
	SenderID   string    `json:"sender_id"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sent_at"`
}

type listMessagesResponse struct {
	Data []messageResponse `json:"data"`
}

type taskEventResponse struct {
	Event     string    `json:"event"`
	ActorID   string    `json:"actor_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Coins     int       `json:"coins,omitempty"`
	XP        int       `json:"xp,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type profileResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	CoinBalance int    `json:"coin_balance"`
	XPTotal     int    `json:"xp_total"`
	Rank        string `json:"rank"`
}

type leaderboardEntryResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	XPTotal  int    `json:"xp_total"`
	Rank     string `json:"rank"`
}

type leaderboardResponse struct {
	Data []leaderboardEntryResponse `json:"data"`
}
