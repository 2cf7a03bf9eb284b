package cache

import (
	"context"
	"fmt"
	"time"
)

// The public ranking page is read far more often than it changes, so the
// rendered rows are cached briefly and invalidated on every recompute.
const rankingSnapshotTTL = 30 * time.Second

// RankingRow is one cached public ranking entry.
type RankingRow struct {
	Position           int    `json:"position"`
	Name               string `json:"name"`
	Instagram          string `json:"instagram"`
	ContractsCompleted int    `json:"contracts_completed"`
	RankingStatus      string `json:"ranking_status"`
}

// RankingSnapshot is the cached public ranking page for one campaign.
type RankingSnapshot struct {
	CampaignID  uint         `json:"campaign_id"`
	Rows        []RankingRow `json:"rows"`
	GeneratedAt int64        `json:"generated_at"`
}

func rankingSnapshotKey(campaignID uint) string {
	return fmt.Sprintf("ranking:campaign:%d", campaignID)
}

// GetRankingSnapshot reads the cached ranking page.
func GetRankingSnapshot(ctx context.Context, campaignID uint) (*RankingSnapshot, bool, error) {
	if campaignID == 0 {
		return nil, false, nil
	}
	var snapshot RankingSnapshot
	hit, err := GetJSON(ctx, rankingSnapshotKey(campaignID), &snapshot)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &snapshot, true, nil
}

// SetRankingSnapshot stores the ranking page.
func SetRankingSnapshot(ctx context.Context, snapshot *RankingSnapshot) error {
	if snapshot == nil || snapshot.CampaignID == 0 {
		return nil
	}
	if snapshot.GeneratedAt == 0 {
		snapshot.GeneratedAt = time.Now().Unix()
	}
	return SetJSON(ctx, rankingSnapshotKey(snapshot.CampaignID), snapshot, rankingSnapshotTTL)
}

// DelRankingSnapshot drops the cached page after a recompute.
func DelRankingSnapshot(ctx context.Context, campaignID uint) error {
	if campaignID == 0 {
		return nil
	}
	return Del(ctx, rankingSnapshotKey(campaignID))
}
