package handler

import "github.com/karmic/marketplace/internal/core/ports"

func linksFor(taskNumber string) taskLinks {
	return taskLinks{
		Self:     "/v1/tasks/" + taskNumber,
		Messages: "/v1/tasks/" + taskNumber + "/messages",
	}
}

func toGetTaskResponse(d *ports.TaskDetail) getTaskResponse {
	history := make([]stateHistoryItemResponse, 0, len(d.StateHistory))
	for _, h := range d.StateHistory {
		history = append(history, stateHistoryItemResponse{
			State:     h.State,
			Timestamp: h.Timestamp,
			Notes:     h.Notes,
		})
	}
	return getTaskResponse{
		TaskNumber:   d.TaskNumber,
		RequesterID:  d.RequesterID,
		HelperID:     d.HelperID,
		Title:        d.Title,
		Description:  d.Description,
		Difficulty:   d.Difficulty,
		RewardCoins:  d.RewardCoins,
		RewardXP:     d.RewardXP,
		State:        d.State,
		CreatedAt:    d.CreatedAt,
		StateHistory: history,
		Links:        linksFor(d.TaskNumber),
	}
}

func toTaskSummaryResponse(s ports.TaskSummary) taskSummaryResponse {
	return taskSummaryResponse{
		TaskNumber:  s.TaskNumber,
		RequesterID: s.RequesterID,
		HelperID:    s.HelperID,
		Title:       s.Title,
		Difficulty:  s.Difficulty,
		RewardCoins: s.RewardCoins,
		RewardXP:    s.RewardXP,
		State:       s.State,
		CreatedAt:   s.CreatedAt,
		Links:       linksFor(s.TaskNumber),
	}
}
