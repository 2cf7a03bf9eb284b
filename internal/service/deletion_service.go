package service

import (
	"time"

	"github.com/indicamais/internal/logger"
	"github.com/indicamais/internal/repository"
)

// DeletionService soft-deletes members and friends and cleans up the hard
// state that hangs off them.
type DeletionService struct {
	memberRepo  repository.MemberRepository
	friendRepo  repository.FriendRepository
	accountRepo repository.LoginAccountRepository
	linkRepo    repository.ReferralLinkRepository

	rankingService *RankingService
	queue          RankingEnqueuer
}

// NewDeletionService creates a deletion service. queue may be nil.
func NewDeletionService(
	memberRepo repository.MemberRepository,
	friendRepo repository.FriendRepository,
	accountRepo repository.LoginAccountRepository,
	linkRepo repository.ReferralLinkRepository,
	rankingService *RankingService,
	queue RankingEnqueuer,
) *DeletionService {
	return &DeletionService{
		memberRepo:     memberRepo,
		friendRepo:     friendRepo,
		accountRepo:    accountRepo,
		linkRepo:       linkRepo,
		rankingService: rankingService,
		queue:          queue,
	}
}

// SoftDeleteMember marks the member inactive and removes its login account
// and referral links. The member's friends are NOT cascaded: they stay
// active and keep counting for nobody until reassigned. The row itself
// survives for reporting.
func (s *DeletionService) SoftDeleteMember(memberID uint) error {
	member, err := s.memberRepo.GetByID(memberID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrNotFound
	}
	if member.IsDeleted() {
		return ErrAlreadyDeleted
	}

	if err := s.memberRepo.SoftDelete(memberID, time.Now()); err != nil {
		return err
	}

	// Login accounts carry no member foreign key; they are matched by the
	// campaign-scoped name and role pair recorded at issuance.
	removed, err := s.accountRepo.DeleteByNameAndRole(member.CampaignID, member.Name, member.Role)
	if err != nil {
		logger.Warnw("login_account_delete_failed", "member_id", memberID, "error", err)
	} else if removed == 0 {
		logger.Infow("login_account_not_found_on_delete", "member_id", memberID, "name", member.Name)
	}

	if removed, err := s.linkRepo.DeleteByMemberID(memberID); err != nil {
		logger.Warnw("referral_link_delete_failed", "member_id", memberID, "error", err)
	} else if removed == 0 {
		logger.Infow("referral_link_not_found_on_delete", "member_id", memberID)
	}

	s.recomputeCampaign(member.CampaignID)
	return nil
}

// SoftDeleteFriend marks the friend inactive and recounts the owning member,
// whose contracts_completed drops by exactly the friend's contribution.
func (s *DeletionService) SoftDeleteFriend(friendID uint) error {
	friend, err := s.friendRepo.GetByID(friendID)
	if err != nil {
		return err
	}
	if friend == nil {
		return ErrNotFound
	}
	if friend.IsDeleted() {
		return ErrAlreadyDeleted
	}

	if err := s.friendRepo.SoftDelete(friendID, time.Now()); err != nil {
		return err
	}

	if err := s.rankingService.RecomputeMemberCounters(friend.MemberID); err != nil {
		logger.Warnw("member_recount_failed", "member_id", friend.MemberID, "error", err)
	}
	s.recomputeCampaign(friend.CampaignID)
	return nil
}

func (s *DeletionService) recomputeCampaign(campaignID uint) {
	if s.queue != nil && s.queue.Enabled() {
		if err := s.queue.EnqueueCampaignRankingRecompute(campaignID); err == nil {
			return
		} else {
			logger.Warnw("ranking_enqueue_failed", "campaign_id", campaignID, "error", err)
		}
	}
	if err := s.rankingService.RecomputeCampaignRanking(campaignID); err != nil {
		logger.Warnw("campaign_ranking_recompute_failed", "campaign_id", campaignID, "error", err)
	}
}
