package service

import (
	"strings"

	"github.com/indicamais/internal/models"
	"github.com/indicamais/internal/repository"
)

// ReferrerService resolves a free-text referrer display name to a unique
// active member or admin record.
type ReferrerService struct {
	memberRepo repository.MemberRepository
	adminRepo  repository.AdminRepository
}

// NewReferrerService creates a referrer resolution service.
func NewReferrerService(memberRepo repository.MemberRepository, adminRepo repository.AdminRepository) *ReferrerService {
	return &ReferrerService{
		memberRepo: memberRepo,
		adminRepo:  adminRepo,
	}
}

// ResolvedReferrer is the resolution result: exactly one of Member/Admin set.
type ResolvedReferrer struct {
	Member *models.Member
	Admin  *models.Admin
}

// IsAdmin reports whether the referrer is a dashboard operator.
func (r *ResolvedReferrer) IsAdmin() bool {
	return r != nil && r.Admin != nil
}

// Name returns the resolved display name.
func (r *ResolvedReferrer) Name() string {
	if r == nil {
		return ""
	}
	if r.Admin != nil {
		return r.Admin.Name
	}
	if r.Member != nil {
		return r.Member.Name
	}
	return ""
}

// MemberID returns the resolved member id, zero for admins.
func (r *ResolvedReferrer) MemberID() uint {
	if r == nil || r.Member == nil {
		return 0
	}
	return r.Member.ID
}

// StripRoleSuffix removes a trailing role annotation such as
// "Maria Silva - Membro" before lookup.
func StripRoleSuffix(displayName string) string {
	name := strings.TrimSpace(displayName)
	if idx := strings.Index(name, " - "); idx >= 0 {
		name = name[:idx]
	}
	return strings.TrimSpace(name)
}

// Resolve finds the active record behind a referrer display name.
//
// Lookup order: exact name among active members, then exact name among
// admins, then case-insensitive substring among active members. Ambiguity is
// tolerated by taking the lowest id, which makes resolution deterministic.
// Returns ErrReferrerNotFound when every pass comes up empty.
func (s *ReferrerService) Resolve(campaignID uint, displayName string) (*ResolvedReferrer, error) {
	if campaignID == 0 {
		return nil, ErrCampaignRequired
	}
	name := StripRoleSuffix(displayName)
	if name == "" {
		return nil, ErrReferrerNotFound
	}

	members, err := s.memberRepo.FindActiveByExactName(campaignID, name)
	if err != nil {
		return nil, err
	}
	if len(members) > 0 {
		return &ResolvedReferrer{Member: &members[0]}, nil
	}

	admins, err := s.adminRepo.FindByExactName(campaignID, name)
	if err != nil {
		return nil, err
	}
	if len(admins) > 0 {
		return &ResolvedReferrer{Admin: &admins[0]}, nil
	}

	members, err = s.memberRepo.FindActiveByNameLike(campaignID, strings.ToLower(name))
	if err != nil {
		return nil, err
	}
	if len(members) > 0 {
		return &ResolvedReferrer{Member: &members[0]}, nil
	}

	return nil, ErrReferrerNotFound
}
