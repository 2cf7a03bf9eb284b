package service

import (
	"errors"

	"github.com/indicamais/internal/constants"
	"github.com/indicamais/internal/logger"
	"github.com/indicamais/internal/models"
	"github.com/indicamais/internal/repository"
)

// RankingService recomputes contract counters and the campaign-wide ranking.
//
// Every entry point recomputes from source counts instead of incrementing in
// place. That property is the primary correctness mechanism: concurrent
// mutations can interleave without locking because the next recompute always
// converges on the true state.
type RankingService struct {
	memberRepo   repository.MemberRepository
	friendRepo   repository.FriendRepository
	campaignRepo repository.CampaignRepository

	topCutoff     int
	useStoredProc bool
}

// NewRankingService creates a ranking service. topCutoff falls back to the
// default cutoff when non-positive.
func NewRankingService(
	memberRepo repository.MemberRepository,
	friendRepo repository.FriendRepository,
	campaignRepo repository.CampaignRepository,
	topCutoff int,
	useStoredProc bool,
) *RankingService {
	if topCutoff <= 0 {
		topCutoff = constants.DefaultRankingCutoff
	}
	return &RankingService{
		memberRepo:    memberRepo,
		friendRepo:    friendRepo,
		campaignRepo:  campaignRepo,
		topCutoff:     topCutoff,
		useStoredProc: useStoredProc,
	}
}

// RankingStatusFor derives the tier from a contract count.
func RankingStatusFor(contractsCompleted int) string {
	switch {
	case contractsCompleted >= constants.RankingGreenThreshold:
		return constants.RankingStatusGreen
	case contractsCompleted >= constants.RankingYellowThreshold:
		return constants.RankingStatusYellow
	default:
		return constants.RankingStatusRed
	}
}

// RecomputeMemberCounters refreshes contracts_completed and ranking_status
// for one member from the live friend count. Idempotent; calling it twice
// with no intervening writes is a no-op the second time.
func (s *RankingService) RecomputeMemberCounters(memberID uint) error {
	if memberID == 0 {
		return ErrNotFound
	}
	member, err := s.memberRepo.GetByID(memberID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrNotFound
	}
	if member.IsDeleted() {
		// Deleted members keep their last counters for reporting.
		return nil
	}

	count, err := s.friendRepo.CountActiveByMember(memberID)
	if err != nil {
		return err
	}
	contracts := int(count)
	return s.memberRepo.UpdateCounters(memberID, contracts, RankingStatusFor(contracts))
}

// RecomputeCampaignRanking reassigns ranking_position and the top-N flag for
// every active member of the campaign: contracts descending, earliest
// created_at first. Rank order can change non-locally when any count moves,
// so the whole scope is always recomputed.
//
// Row update failures do not abort the batch; they are logged, the remaining
// rows are still ranked, and the joined error is returned.
func (s *RankingService) RecomputeCampaignRanking(campaignID uint) error {
	if campaignID == 0 {
		return ErrCampaignRequired
	}

	if s.useStoredProc {
		// Server-side path; behaviorally equivalent to the loop below.
		return s.memberRepo.CallUpdateCompleteRanking(campaignID)
	}

	cutoff, err := s.resolveCutoff(campaignID)
	if err != nil {
		return err
	}

	members, err := s.memberRepo.ListActiveForRanking(campaignID)
	if err != nil {
		return err
	}

	var rowErrs []error
	for i := range members {
		position := i + 1
		isTop := position <= cutoff
		if err := s.memberRepo.UpdateRanking(members[i].ID, position, isTop); err != nil {
			logger.Warnw("ranking_row_update_failed",
				"campaign_id", campaignID,
				"member_id", members[i].ID,
				"position", position,
				"error", err,
			)
			rowErrs = append(rowErrs, err)
		}
	}
	return errors.Join(rowErrs...)
}

// RecomputeAfterMutation runs the member recount followed by the campaign
// ranking pass. Used by registration and deletion flows.
func (s *RankingService) RecomputeAfterMutation(campaignID, memberID uint) error {
	if memberID != 0 {
		if err := s.RecomputeMemberCounters(memberID); err != nil {
			return err
		}
	}
	return s.RecomputeCampaignRanking(campaignID)
}

func (s *RankingService) resolveCutoff(campaignID uint) (int, error) {
	cutoff := s.topCutoff
	var campaign *models.Campaign
	campaign, err := s.campaignRepo.GetByID(campaignID)
	if err != nil {
		return 0, err
	}
	if campaign != nil && campaign.RankingCutoff > 0 {
		cutoff = campaign.RankingCutoff
	}
	return cutoff, nil
}
