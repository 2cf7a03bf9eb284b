package service

import (
	"context"
	"strings"

	"github.com/indicamais/internal/constants"
	"github.com/indicamais/internal/logger"
	"github.com/indicamais/internal/models"
	"github.com/indicamais/internal/repository"

	"github.com/google/uuid"
)

// RankingEnqueuer pushes a campaign-wide ranking recompute onto the async
// queue. Nil or disabled clients make the service recompute inline.
type RankingEnqueuer interface {
	EnqueueCampaignRankingRecompute(campaignID uint) error
	Enabled() bool
}

// RegisterPersonInput carries the person and partner fields shared by member
// and friend registration.
type RegisterPersonInput struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Instagram string `json:"instagram"`
	Cep       string `json:"cep"`
	City      string `json:"city"`
	Sector    string `json:"sector"`

	PartnerName      string `json:"partner_name"`
	PartnerPhone     string `json:"partner_phone"`
	PartnerInstagram string `json:"partner_instagram"`
	PartnerCity      string `json:"partner_city"`
	PartnerSector    string `json:"partner_sector"`
}

// RegisterMemberInput is the member registration payload.
type RegisterMemberInput struct {
	CampaignID uint   `json:"campaign_id"`
	Referrer   string `json:"referrer"`
	RegisterPersonInput
}

// RegisterMemberResult is returned on successful member registration.
type RegisterMemberResult struct {
	Member        *models.Member `json:"member"`
	Credentials   *Credentials   `json:"credentials,omitempty"`
	ReferralToken string         `json:"referral_token,omitempty"`
}

// RegisterFriendInput is the friend registration payload. MemberID wires the
// owner directly; when zero the Referrer display name is resolved instead.
type RegisterFriendInput struct {
	CampaignID uint   `json:"campaign_id"`
	MemberID   uint   `json:"member_id"`
	Referrer   string `json:"referrer"`
	RegisterPersonInput
}

// RegisterFriendResult is returned on successful friend registration.
type RegisterFriendResult struct {
	Friend *models.Friend `json:"friend"`
}

// RegistrationService validates and persists new members and friends.
type RegistrationService struct {
	memberRepo   repository.MemberRepository
	friendRepo   repository.FriendRepository
	campaignRepo repository.CampaignRepository
	linkRepo     repository.ReferralLinkRepository

	referrerService   *ReferrerService
	capacityService   *CapacityService
	credentialService *CredentialService
	rankingService    *RankingService
	cepLookup         CepLookup
	queue             RankingEnqueuer
}

// NewRegistrationService creates a registration service. cepLookup and queue
// may be nil.
func NewRegistrationService(
	memberRepo repository.MemberRepository,
	friendRepo repository.FriendRepository,
	campaignRepo repository.CampaignRepository,
	linkRepo repository.ReferralLinkRepository,
	referrerService *ReferrerService,
	capacityService *CapacityService,
	credentialService *CredentialService,
	rankingService *RankingService,
	cepLookup CepLookup,
	queue RankingEnqueuer,
) *RegistrationService {
	return &RegistrationService{
		memberRepo:        memberRepo,
		friendRepo:        friendRepo,
		campaignRepo:      campaignRepo,
		linkRepo:          linkRepo,
		referrerService:   referrerService,
		capacityService:   capacityService,
		credentialService: credentialService,
		rankingService:    rankingService,
		cepLookup:         cepLookup,
		queue:             queue,
	}
}

// normalizePerson rewrites the free-form person fields into canonical form:
// digits-only phones, lower-case handles without '@', digits-only CEP.
func normalizePerson(input *RegisterPersonInput) {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = OnlyDigits(input.Phone)
	input.Instagram = NormalizeInstagram(input.Instagram)
	input.Cep = NormalizeCep(input.Cep)
	input.City = strings.TrimSpace(input.City)
	input.Sector = strings.TrimSpace(input.Sector)
	input.PartnerName = strings.TrimSpace(input.PartnerName)
	input.PartnerPhone = OnlyDigits(input.PartnerPhone)
	input.PartnerInstagram = NormalizeInstagram(input.PartnerInstagram)
	input.PartnerCity = strings.TrimSpace(input.PartnerCity)
	input.PartnerSector = strings.TrimSpace(input.PartnerSector)
}

// validatePerson aggregates every field failure before returning. The
// partner sub-record follows the same rules and must not reuse the primary
// person's phone or handle.
func validatePerson(input *RegisterPersonInput) ValidationErrors {
	errs := ValidationErrors{}
	validatePersonInto(errs, "", PersonFields{
		Name:      input.Name,
		Phone:     input.Phone,
		Instagram: input.Instagram,
	})
	if msg := validateCep(input.Cep); msg != "" {
		errs["cep"] = msg
	}
	validatePersonInto(errs, "partner_", PersonFields{
		Name:      input.PartnerName,
		Phone:     input.PartnerPhone,
		Instagram: input.PartnerInstagram,
	})
	if _, taken := errs["partner_phone"]; !taken && input.PartnerPhone == input.Phone {
		errs["partner_phone"] = "telefone do cônjuge deve ser diferente"
	}
	if _, taken := errs["partner_instagram"]; !taken && input.PartnerInstagram == input.Instagram {
		errs["partner_instagram"] = "instagram do cônjuge deve ser diferente"
	}
	return errs
}

// resolveAddress fills city/sector from the postal-lookup collaborator when
// the caller did not provide them.
func (s *RegistrationService) resolveAddress(ctx context.Context, input *RegisterPersonInput, errs ValidationErrors) {
	if input.City != "" && input.Sector != "" {
		return
	}
	if s.cepLookup == nil {
		if input.City == "" {
			errs["city"] = "cidade é obrigatória"
		}
		return
	}
	if _, bad := errs["cep"]; bad {
		return
	}
	address, err := s.cepLookup.Lookup(ctx, input.Cep)
	if err != nil {
		errs["cep"] = ErrCepNotFound.Error()
		return
	}
	if input.City == "" {
		input.City = address.City
	}
	if input.Sector == "" {
		input.Sector = address.Neighborhood
	}
}

// checkDuplicates enforces phone/instagram uniqueness across active members
// and friends of the campaign. Query-time check, not a database constraint;
// the race window is an accepted tolerance.
func (s *RegistrationService) checkDuplicates(campaignID uint, phone, instagram string) error {
	exists, err := s.memberRepo.ActivePhoneExists(campaignID, phone)
	if err != nil {
		return err
	}
	if !exists {
		exists, err = s.friendRepo.ActivePhoneExists(campaignID, phone)
		if err != nil {
			return err
		}
	}
	if exists {
		return &DuplicateError{Field: "phone", Value: phone}
	}

	exists, err = s.memberRepo.ActiveInstagramExists(campaignID, instagram)
	if err != nil {
		return err
	}
	if !exists {
		exists, err = s.friendRepo.ActiveInstagramExists(campaignID, instagram)
		if err != nil {
			return err
		}
	}
	if exists {
		return &DuplicateError{Field: "instagram", Value: instagram}
	}
	return nil
}

func (s *RegistrationService) activeCampaign(campaignID uint) (*models.Campaign, error) {
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
	if campaign.Status != constants.CampaignStatusActive {
		return nil, ErrCampaignInactive
	}
	return campaign, nil
}

// RegisterMember runs the full member registration sequence: validate,
// resolve referrer, limit check, issue credentials, insert, recompute.
// The steps are separate round-trips; the recompute path self-heals any
// interleaving (see RankingService).
func (s *RegistrationService) RegisterMember(ctx context.Context, input RegisterMemberInput) (*RegisterMemberResult, error) {
	campaign, err := s.activeCampaign(input.CampaignID)
	if err != nil {
		return nil, err
	}

	normalizePerson(&input.RegisterPersonInput)
	input.Referrer = strings.TrimSpace(input.Referrer)

	errs := validatePerson(&input.RegisterPersonInput)
	if input.Referrer == "" {
		errs["referrer"] = "indicador é obrigatório"
	}
	s.resolveAddress(ctx, &input.RegisterPersonInput, errs)
	if len(errs) > 0 {
		return nil, errs
	}

	if err := s.checkDuplicates(campaign.ID, input.Phone, input.Instagram); err != nil {
		return nil, err
	}

	referrer, err := s.referrerService.Resolve(campaign.ID, input.Referrer)
	if err != nil {
		return nil, err
	}

	report, err := s.capacityService.CheckCapacity(campaign.ID, CapacityKindMember)
	if err != nil {
		return nil, err
	}
	if !report.Allowed {
		return nil, &LimitReachedError{
			Kind:     CapacityKindMember,
			Current:  report.Current,
			Max:      report.Max,
			PlanName: report.PlanName,
		}
	}

	// A member invited by an admin keeps the Membro role; one invited by
	// another member becomes an Amigo only in the paid-contracts phase.
	role := constants.RoleMember
	if !referrer.IsAdmin() && campaign.PaidContractsPhase {
		role = constants.RoleFriend
	}

	account, credentials, err := s.credentialService.IssueAccount(campaign.ID, input.Name, role, input.Instagram, input.Phone)
	if err != nil {
		return nil, err
	}

	member := &models.Member{
		CampaignID:       campaign.ID,
		Name:             input.Name,
		Phone:            input.Phone,
		Instagram:        input.Instagram,
		Cep:              input.Cep,
		City:             input.City,
		Sector:           input.Sector,
		Referrer:         referrer.Name(),
		Role:             role,
		Status:           constants.RecordStatusActive,
		IsFriend:         role == constants.RoleFriend,
		PartnerName:      input.PartnerName,
		PartnerPhone:     input.PartnerPhone,
		PartnerInstagram: input.PartnerInstagram,
		PartnerCity:      input.PartnerCity,
		PartnerSector:    input.PartnerSector,
		RankingStatus:    constants.RankingStatusRed,
	}
	if err := s.memberRepo.Create(member); err != nil {
		// The account was issued before the insert; remove it so a failed
		// registration leaves no orphaned credentials behind.
		if delErr := s.credentialService.RemoveAccount(account.ID); delErr != nil {
			logger.Warnw("login_account_rollback_failed", "account_id", account.ID, "error", delErr)
		}
		return nil, err
	}

	link := &models.ReferralLink{
		CampaignID: campaign.ID,
		MemberID:   member.ID,
		Token:      uuid.NewString(),
	}
	if err := s.linkRepo.Create(link); err != nil {
		logger.Warnw("referral_link_create_failed", "member_id", member.ID, "error", err)
	}

	s.triggerRecompute(campaign.ID, referrer.MemberID())

	return &RegisterMemberResult{
		Member:        member,
		Credentials:   credentials,
		ReferralToken: link.Token,
	}, nil
}

// RegisterFriend validates and inserts a friend under its owning member.
func (s *RegistrationService) RegisterFriend(ctx context.Context, input RegisterFriendInput) (*RegisterFriendResult, error) {
	campaign, err := s.activeCampaign(input.CampaignID)
	if err != nil {
		return nil, err
	}

	normalizePerson(&input.RegisterPersonInput)
	input.Referrer = strings.TrimSpace(input.Referrer)

	errs := validatePerson(&input.RegisterPersonInput)
	if input.MemberID == 0 && input.Referrer == "" {
		errs["referrer"] = "indicador é obrigatório"
	}
	s.resolveAddress(ctx, &input.RegisterPersonInput, errs)
	if len(errs) > 0 {
		return nil, errs
	}

	if err := s.checkDuplicates(campaign.ID, input.Phone, input.Instagram); err != nil {
		return nil, err
	}

	owner, err := s.resolveOwner(campaign.ID, input.MemberID, input.Referrer)
	if err != nil {
		return nil, err
	}

	report, err := s.capacityService.CheckCapacity(campaign.ID, CapacityKindFriend)
	if err != nil {
		return nil, err
	}
	if !report.Allowed {
		return nil, &LimitReachedError{
			Kind:     CapacityKindFriend,
			Current:  report.Current,
			Max:      report.Max,
			PlanName: report.PlanName,
		}
	}

	friend := &models.Friend{
		CampaignID:       campaign.ID,
		MemberID:         owner.ID,
		Name:             input.Name,
		Phone:            input.Phone,
		Instagram:        input.Instagram,
		Cep:              input.Cep,
		City:             input.City,
		Sector:           input.Sector,
		Referrer:         owner.Name,
		Status:           constants.RecordStatusActive,
		PartnerName:      input.PartnerName,
		PartnerPhone:     input.PartnerPhone,
		PartnerInstagram: input.PartnerInstagram,
		PartnerCity:      input.PartnerCity,
		PartnerSector:    input.PartnerSector,
	}
	if err := s.friendRepo.Create(friend); err != nil {
		return nil, err
	}

	s.triggerRecompute(campaign.ID, owner.ID)

	return &RegisterFriendResult{Friend: friend}, nil
}

// resolveOwner finds the active member who owns a new friend, either by id
// or by referrer display name. Admins cannot own friends.
func (s *RegistrationService) resolveOwner(campaignID, memberID uint, referrerName string) (*models.Member, error) {
	if memberID != 0 {
		member, err := s.memberRepo.GetByID(memberID)
		if err != nil {
			return nil, err
		}
		if member == nil || member.IsDeleted() ||
			member.Status != constants.RecordStatusActive || member.CampaignID != campaignID {
			return nil, ErrReferrerNotFound
		}
		return member, nil
	}
	resolved, err := s.referrerService.Resolve(campaignID, referrerName)
	if err != nil {
		return nil, err
	}
	if resolved.Member == nil {
		return nil, ErrReferrerNotFound
	}
	return resolved.Member, nil
}

// triggerRecompute recounts the touched member inline and then refreshes the
// campaign ranking, via the queue when available.
func (s *RegistrationService) triggerRecompute(campaignID, memberID uint) {
	if memberID != 0 {
		if err := s.rankingService.RecomputeMemberCounters(memberID); err != nil {
			logger.Warnw("member_recount_failed", "member_id", memberID, "error", err)
		}
	}
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
