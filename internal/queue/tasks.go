package queue

import (
	"encoding/json"

	"github.com/indicamais/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCampaignRankingRecompute refreshes positions for a whole campaign.
	TaskCampaignRankingRecompute = constants.TaskCampaignRankingRecompute
	// TaskMemberCountersRecompute recounts one member's contracts.
	TaskMemberCountersRecompute = constants.TaskMemberCountersRecompute
)

// CampaignRankingPayload scopes a ranking recompute task.
type CampaignRankingPayload struct {
	CampaignID uint `json:"campaign_id"`
}

// MemberCountersPayload scopes a member recount task.
type MemberCountersPayload struct {
	MemberID uint `json:"member_id"`
}

// NewCampaignRankingTask creates a campaign ranking recompute task.
func NewCampaignRankingTask(payload CampaignRankingPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCampaignRankingRecompute, body), nil
}

// NewMemberCountersTask creates a member recount task.
func NewMemberCountersTask(payload MemberCountersPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMemberCountersRecompute, body), nil
}
