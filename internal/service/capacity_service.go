package service

import (
	"strings"

	"github.com/indicamais/internal/repository"
)

// Registration kinds accepted by the capacity gate.
const (
	CapacityKindMember = "member"
	CapacityKindFriend = "friend"
)

// PlanLimits is one capacity ceiling pair. Zero means unbounded.
type PlanLimits struct {
	MaxMembers int64
	MaxFriends int64
}

// planLimitEntry maps a plan-name fragment to its ceilings. Matched in order,
// case-insensitive, first hit wins.
type planLimitEntry struct {
	fragment string
	limits   PlanLimits
}

var planLimitTable = []planLimitEntry{
	{"gratuito", PlanLimits{MaxMembers: 25, MaxFriends: 25}},
	{"essencial", PlanLimits{MaxMembers: 1000, MaxFriends: 1000}},
	{"profissional", PlanLimits{MaxMembers: 2500, MaxFriends: 2500}},
	{"avançado", PlanLimits{}},
	{"avancado", PlanLimits{}},
	{"plano a", PlanLimits{MaxMembers: 1500, MaxFriends: 22500}},
	{"plano b", PlanLimits{MaxMembers: 1500, MaxFriends: 22500}},
	{"b luxo", PlanLimits{MaxMembers: 1500, MaxFriends: 22500}},
}

// ResolvePlanLimits resolves ceilings from a free-text plan name. Unknown
// names fall back to the free tier.
func ResolvePlanLimits(planName string) PlanLimits {
	normalized := strings.ToLower(strings.TrimSpace(planName))
	for _, entry := range planLimitTable {
		if strings.Contains(normalized, entry.fragment) {
			return entry.limits
		}
	}
	return PlanLimits{MaxMembers: 25, MaxFriends: 25}
}

// CapacityReport is the pre-flight capacity snapshot. The check is advisory:
// it is not a transactional constraint, so two concurrent registrations can
// both pass it (accepted tolerance, the recompute path self-heals counts).
type CapacityReport struct {
	Allowed   bool   `json:"allowed"`
	Current   int64  `json:"current"`
	Max       int64  `json:"max"`
	Unbounded bool   `json:"unbounded"`
	PlanName  string `json:"plan_name"`
}

// CapacityService evaluates plan-derived registration ceilings.
type CapacityService struct {
	campaignRepo repository.CampaignRepository
	memberRepo   repository.MemberRepository
	friendRepo   repository.FriendRepository
}

// NewCapacityService creates a capacity service.
func NewCapacityService(
	campaignRepo repository.CampaignRepository,
	memberRepo repository.MemberRepository,
	friendRepo repository.FriendRepository,
) *CapacityService {
	return &CapacityService{
		campaignRepo: campaignRepo,
		memberRepo:   memberRepo,
		friendRepo:   friendRepo,
	}
}

// CheckCapacity counts active rows of the requested kind and compares them
// against the campaign plan's ceiling.
func (s *CapacityService) CheckCapacity(campaignID uint, kind string) (*CapacityReport, error) {
	if campaignID == 0 {
		return nil, ErrCampaignRequired
	}
	campaign, err := s.campaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrNotFound
	}

	planName := ""
	limits := PlanLimits{MaxMembers: 25, MaxFriends: 25}
	if campaign.Plan != nil {
		planName = campaign.Plan.Name
		limits = ResolvePlanLimits(planName)
		// Explicit plan columns override the name table when set.
		if campaign.Plan.MaxMembers > 0 {
			limits.MaxMembers = int64(campaign.Plan.MaxMembers)
		}
		if campaign.Plan.MaxFriends > 0 {
			limits.MaxFriends = int64(campaign.Plan.MaxFriends)
		}
	}

	var current int64
	var max int64
	switch kind {
	case CapacityKindMember:
		current, err = s.memberRepo.CountActive(campaignID)
		max = limits.MaxMembers
	case CapacityKindFriend:
		current, err = s.friendRepo.CountActive(campaignID)
		max = limits.MaxFriends
	default:
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	report := &CapacityReport{
		Current:  current,
		Max:      max,
		PlanName: planName,
	}
	if max <= 0 {
		report.Allowed = true
		report.Unbounded = true
		return report, nil
	}
	report.Allowed = current < max
	return report, nil
}
