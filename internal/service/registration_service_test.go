package service

import (
	"context"
	"errors"
	"testing"

	"github.com/indicamais/internal/constants"
	"github.com/indicamais/internal/models"
	"github.com/indicamais/internal/repository"

	"gorm.io/gorm"
)

type registrationTestEnv struct {
	db          *gorm.DB
	memberRepo  repository.MemberRepository
	friendRepo  repository.FriendRepository
	accountRepo repository.LoginAccountRepository
	linkRepo    repository.ReferralLinkRepository
	cep         *fixedCepLookup
	queue       *recordingEnqueuer
	svc         *RegistrationService
}

func setupRegistrationTest(t *testing.T) *registrationTestEnv {
	t.Helper()
	db := openServiceTestDB(t)
	memberRepo := repository.NewMemberRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	accountRepo := repository.NewLoginAccountRepository(db)
	linkRepo := repository.NewReferralLinkRepository(db)

	cep := &fixedCepLookup{address: CepAddress{State: "GO", City: "Goiânia", Neighborhood: "Centro"}}
	queue := &recordingEnqueuer{}
	ranking := NewRankingService(memberRepo, friendRepo, campaignRepo, 1500, false)
	svc := NewRegistrationService(
		memberRepo,
		friendRepo,
		campaignRepo,
		linkRepo,
		NewReferrerService(memberRepo, adminRepo),
		NewCapacityService(campaignRepo, memberRepo, friendRepo),
		NewCredentialService(accountRepo),
		ranking,
		cep,
		queue,
	)
	return &registrationTestEnv{
		db:          db,
		memberRepo:  memberRepo,
		friendRepo:  friendRepo,
		accountRepo: accountRepo,
		linkRepo:    linkRepo,
		cep:         cep,
		queue:       queue,
		svc:         svc,
	}
}

func validPersonInput(name, phone, instagram string) RegisterPersonInput {
	return RegisterPersonInput{
		Name:             name,
		Phone:            phone,
		Instagram:        instagram,
		Cep:              "74000-000",
		PartnerName:      "Pedro Alves",
		PartnerPhone:     "62991112233",
		PartnerInstagram: "pedro.alves",
	}
}

func validMemberInput(campaignID uint, referrer, name, phone, instagram string) RegisterMemberInput {
	return RegisterMemberInput{
		CampaignID:          campaignID,
		Referrer:            referrer,
		RegisterPersonInput: validPersonInput(name, phone, instagram),
	}
}

func TestRegisterMemberByAdmin(t *testing.T) {
	env := setupRegistrationTest(t)
	plan := createTestPlan(t, env.db, "Plano Essencial", 0, 0)
	campaign := createTestCampaign(t, env.db, plan, "cadastro", false)
	createTestAdmin(t, env.db, "equipe", "Equipe Indica")

	input := validMemberInput(campaign.ID, "Equipe Indica", "Maria Silva", "(62) 98123-4567", "@Maria.Silva")
	result, err := env.svc.RegisterMember(context.Background(), input)
	if err != nil {
		t.Fatalf("RegisterMember: %v", err)
	}

	member := result.Member
	if member.Role != constants.RoleMember || member.IsFriend {
		t.Fatalf("admin-referred member must keep role Membro, got %s is_friend %v", member.Role, member.IsFriend)
	}
	if member.Phone != "62981234567" || member.Instagram != "maria.silva" || member.Cep != "74000000" {
		t.Fatalf("normalization failed: %+v", member)
	}
	if member.City != "Goiânia" || member.Sector != "Centro" {
		t.Fatalf("address must come from the postal lookup, got %q/%q", member.City, member.Sector)
	}
	if member.Referrer != "Equipe Indica" {
		t.Fatalf("referrer want Equipe Indica got %q", member.Referrer)
	}
	if member.Status != constants.RecordStatusActive || member.RankingStatus != constants.RankingStatusRed {
		t.Fatalf("fresh member status want Ativo/Vermelho got %s/%s", member.Status, member.RankingStatus)
	}

	if result.Credentials == nil || result.Credentials.Username != "maria.silva" || result.Credentials.Password != "81234567" {
		t.Fatalf("credentials want maria.silva/81234567 got %+v", result.Credentials)
	}
	if result.ReferralToken == "" {
		t.Fatalf("referral token missing")
	}
	link, err := env.linkRepo.GetByToken(result.ReferralToken)
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if link == nil || link.MemberID != member.ID {
		t.Fatalf("referral link not persisted for member %d", member.ID)
	}

	// Queue disabled: the campaign ranking was recomputed inline.
	reloaded, err := env.memberRepo.GetByID(member.ID)
	if err != nil {
		t.Fatalf("reload member: %v", err)
	}
	if reloaded.RankingPosition == nil || *reloaded.RankingPosition != 1 {
		t.Fatalf("sole member position want 1 got %v", reloaded.RankingPosition)
	}
}

func TestRegisterMemberPaidPhaseRole(t *testing.T) {
	env := setupRegistrationTest(t)
	plan := createTestPlan(t, env.db, "Plano Essencial", 0, 0)
	campaign := createTestCampaign(t, env.db, plan, "fase-paga", true)
	createTestMember(t, env.db, campaign.ID, "Maria Silva", "62981230001", "maria.silva")

	input := validMemberInput(campaign.ID, "Maria Silva", "Joao Lima", "62981234567", "joao.lima")
	result, err := env.svc.RegisterMember(context.Background(), input)
	if err != nil {
		t.Fatalf("RegisterMember: %v", err)
	}
	if result.Member.Role != constants.RoleFriend || !result.Member.IsFriend {
		t.Fatalf("member-referred registrant in paid phase want Amigo, got %s is_friend %v",
			result.Member.Role, result.Member.IsFriend)
	}
}

func TestRegisterMemberPaidPhaseOffKeepsRole(t *testing.T) {
	env := setupRegistrationTest(t)
	plan := createTestPlan(t, env.db, "Plano Essencial", 0, 0)
	campaign := createTestCampaign(t, env.db, plan, "fase-livre", false)
	createTestMember(t, env.db, campaign.ID, "Maria Silva", "62981230001", "maria.silva")

	input := validMemberInput(campaign.ID, "Maria Silva", "Joao Lima", "62981234567", "joao.lima")
	result, err := env.svc.RegisterMember(context.Background(), input)
	if err != nil {
		t.Fatalf("RegisterMember: %v", err)
	}
	if result.Member.Role != constants.RoleMember || result.Member.IsFriend {
		t.Fatalf("outside the paid phase the role stays Membro, got %s", result.Member.Role)
	}
}

func TestRegisterMemberValidationAggregation(t *testing.T) {
	env := setupRegistrationTest(t)
	plan := createTestPlan(t, env.db, "Plano Essencial", 0, 0)
	campaign := createTestCampaign(t, env.db, plan, "validacao", false)

	input := RegisterMemberInput{
		CampaignID: campaign.ID,
		RegisterPersonInput: RegisterPersonInput{
			Name:      "Maria",
			Phone:     "123",
			Instagram: "instagram",
			Cep:       "123",
		},
	}
	_, err := env.svc.RegisterMember(context.Background(), input)
	errs, ok := AsValidationErrors(err)
	if !ok {
		t.Fatalf("want ValidationErrors got %v", err)
	}
	for _, field := range []string{"name", "phone", "instagram", "cep", "referrer"} {
		if _, present := errs[field]; !present {
			t.Fatalf("expected aggregated error for %s, got %v", field, errs)
		}
	}
}

func TestRegisterMemberPartnerRules(t *testing.T) {
	env := setupRegistrationTest(t)
	plan := createTestPlan(t, env.db, "Plano Essencial", 0, 0)
	campaign := createTestCampaign(t, env.db, plan, "conjuge", false)
	createTestAdmin(t, env.db, "equipe", "Equipe Indica")

	input := validMemberInput(campaign.ID, "Equipe Indica", "Maria Silva", "62981234567", "maria.silva")
	input.PartnerName = "Pedro Silva"
	input.PartnerPhone = "62981234567"     // same as primary
	input.PartnerInstagram = "maria.silva" // same as primary

	_, err := env.svc.RegisterMember(context.Background(), input)
	errs, ok := AsValidationErrors(err)
	if !ok {
		t.Fatalf("want ValidationErrors got %v", err)
	}
	if _, present := errs["partner_phone"]; !present {
		t.Fatalf("expected partner_phone error, got %v", errs)
	}
	if _, present := errs["partner_instagram"]; !present {
		t.Fatalf("expected partner_instagram error, got %v", errs)
	}

	// A distinct partner passes.
	input.PartnerPhone = "62981230009"
	input.PartnerInstagram = "pedro.silva"
	if _, err := env.svc.RegisterMember(context.Background(), input); err != nil {
		t.Fatalf("valid partner rejected: %v", err)
	}
}

func TestRegisterMemberPartnerRequired(t *testing.T) {
	env := setupRegistrationTest(t)
	plan := createTestPlan(t, env.db, "Plano Essencial", 0, 0)
	campaign := createTestCampaign(t, env.db, plan, "sem-conjuge", false)
	createTestAdmin(t, env.db, "equipe", "Equipe Indica")

	input := validMemberInput(campaign.ID, "Equipe Indica", "Maria Silva", "62981234567", "maria.silva")
	input.PartnerName = ""
	input.PartnerPhone = ""
	input.PartnerInstagram = ""

	_, err := env.svc.RegisterMember(context.Background(), input)
	errs, ok := AsValidationErrors(err)
	if !ok {
		t.Fatalf("registration without partner data must fail, got %v", err)
	}
	for _, field := range []string{"partner_name", "partner_phone", "partner_instagram"} {
		if _, present := errs[field]; !present {
			t.Fatalf("expected aggregated error for %s, got %v", field, errs)
		}
	}
}

func TestRegisterMemberCepLookupFailure(t *testing.T) {
	env := setupRegistrationTest(t)
	plan := createTestPlan(t, env.db, "Plano Essencial", 0, 0)
	campaign := createTestCampaign(t, env.db, plan, "cep-falho", false)
	createTestAdmin(t, env.db, "equipe", "Equipe Indica")
	env.cep.err = ErrCepNotFound

	input := validMemberInput(campaign.ID, "Equipe Indica", "Maria Silva", "62981234567", "maria.silva")
	_, err := env.svc.RegisterMember(context.Background(), input)
	errs, ok := AsValidationErrors(err)
	if !ok {
		t.Fatalf("want ValidationErrors got %v", err)
	}
	if _, present := errs["cep"]; !present {
		t.Fatalf("expected cep error, got %v", errs)
	}

	// Caller-provided address skips the lookup entirely.
	input.City = "Goiânia"
	input.Sector = "Setor Bueno"
	if _, err := env.svc.RegisterMember(context.Background(), input); err != nil {
		t.Fatalf("explicit address rejected: %v", err)
	}
}

func TestRegisterMemberDuplicates(t *testing.T) {
	env := setupRegistrationTest(t)
	plan := createTestPlan(t, env.db, "Plano Essencial", 0, 0)
	campaign := createTestCampaign(t, env.db, plan, "duplicatas", false)
	createTestAdmin(t, env.db, "equipe", "Equipe Indica")

	first := validMemberInput(campaign.ID, "Equipe Indica", "Maria Silva", "62981234567", "maria.silva")
	if _, err := env.svc.RegisterMember(context.Background(), first); err != nil {
		t.Fatalf("first registration: %v", err)
	}

	samePhone := validMemberInput(campaign.ID, "Equipe Indica", "Joao Lima", "62981234567", "joao.lima")
	_, err := env.svc.RegisterMember(context.Background(), samePhone)
	dup, ok := AsDuplicateError(err)
	if !ok || dup.Field != "phone" {
		t.Fatalf("want duplicate phone got %v", err)
	}

	sameHandle := validMemberInput(campaign.ID, "Equipe Indica", "Joao Lima", "62981230002", "maria.silva")
	_, err = env.svc.RegisterMember(context.Background(), sameHandle)
	dup, ok = AsDuplicateError(err)
	if !ok || dup.Field != "instagram" {
		t.Fatalf("want duplicate instagram got %v", err)
	}

	// Friends also hold the uniqueness scope.
	owner, _ := env.memberRepo.FindActiveByExactName(campaign.ID, "Maria Silva")
	createTestFriend(t, env.db, campaign.ID, owner[0].ID, "Ana Costa", "62981230003", "ana.costa")
	friendPhone := validMemberInput(campaign.ID, "Equipe Indica", "Bea Souza", "62981230003", "bea.souza")
	_, err = env.svc.RegisterMember(context.Background(), friendPhone)
	dup, ok = AsDuplicateError(err)
	if !ok || dup.Field != "phone" {
		t.Fatalf("want duplicate phone against friend got %v", err)
	}
}

func TestRegisterMemberCapacityLimit(t *testing.T) {
	env := setupRegistrationTest(t)
	plan := createTestPlan(t, env.db, "Plano Gratuito", 1, 0)
	campaign := createTestCampaign(t, env.db, plan, "limite", false)
	createTestAdmin(t, env.db, "equipe", "Equipe Indica")

	first := validMemberInput(campaign.ID, "Equipe Indica", "Maria Silva", "62981234567", "maria.silva")
	if _, err := env.svc.RegisterMember(context.Background(), first); err != nil {
		t.Fatalf("first registration: %v", err)
	}

	second := validMemberInput(campaign.ID, "Equipe Indica", "Joao Lima", "62981230002", "joao.lima")
	_, err := env.svc.RegisterMember(context.Background(), second)
	limit, ok := AsLimitReachedError(err)
	if !ok {
		t.Fatalf("want LimitReachedError got %v", err)
	}
	if limit.Kind != CapacityKindMember || limit.Current != 1 || limit.Max != 1 {
		t.Fatalf("limit detail want member 1/1 got %+v", limit)
	}
}

func TestRegisterMemberCampaignGuards(t *testing.T) {
	env := setupRegistrationTest(t)
	plan := createTestPlan(t, env.db, "Plano Essencial", 0, 0)
	inactive := createTestCampaign(t, env.db, plan, "encerrada", false)
	inactive.Status = constants.CampaignStatusInactive
	if err := env.db.Save(inactive).Error; err != nil {
		t.Fatalf("deactivate campaign: %v", err)
	}

	input := validMemberInput(inactive.ID, "Equipe Indica", "Maria Silva", "62981234567", "maria.silva")
	if _, err := env.svc.RegisterMember(context.Background(), input); err != ErrCampaignInactive {
		t.Fatalf("inactive campaign want ErrCampaignInactive got %v", err)
	}

	input.CampaignID = 0
	if _, err := env.svc.RegisterMember(context.Background(), input); err != ErrCampaignRequired {
		t.Fatalf("zero campaign want ErrCampaignRequired got %v", err)
	}

	input.CampaignID = 9999
	if _, err := env.svc.RegisterMember(context.Background(), input); err != ErrNotFound {
		t.Fatalf("missing campaign want ErrNotFound got %v", err)
	}
}

func TestRegisterMemberReferrerNotFound(t *testing.T) {
	env := setupRegistrationTest(t)
	plan := createTestPlan(t, env.db, "Plano Essencial", 0, 0)
	campaign := createTestCampaign(t, env.db, plan, "sem-indicador", false)

	input := validMemberInput(campaign.ID, "Ninguem Aqui", "Maria Silva", "62981234567", "maria.silva")
	if _, err := env.svc.RegisterMember(context.Background(), input); err != ErrReferrerNotFound {
		t.Fatalf("want ErrReferrerNotFound got %v", err)
	}
}

func TestRegisterMemberQueueEnabled(t *testing.T) {
	env := setupRegistrationTest(t)
	env.queue.enabled = true
	plan := createTestPlan(t, env.db, "Plano Essencial", 0, 0)
	campaign := createTestCampaign(t, env.db, plan, "com-fila", false)
	createTestAdmin(t, env.db, "equipe", "Equipe Indica")

	input := validMemberInput(campaign.ID, "Equipe Indica", "Maria Silva", "62981234567", "maria.silva")
	result, err := env.svc.RegisterMember(context.Background(), input)
	if err != nil {
		t.Fatalf("RegisterMember: %v", err)
	}
	if len(env.queue.campaignIDs) != 1 || env.queue.campaignIDs[0] != campaign.ID {
		t.Fatalf("expected one enqueued recompute for campaign %d, got %v", campaign.ID, env.queue.campaignIDs)
	}
	reloaded, err := env.memberRepo.GetByID(result.Member.ID)
	if err != nil {
		t.Fatalf("reload member: %v", err)
	}
	if reloaded.RankingPosition != nil {
		t.Fatalf("queued recompute must not run inline, got position %v", *reloaded.RankingPosition)
	}
}

func TestRegisterMemberQueueFailureFallsBackInline(t *testing.T) {
	env := setupRegistrationTest(t)
	env.queue.enabled = true
	env.queue.failNext = context.DeadlineExceeded
	plan := createTestPlan(t, env.db, "Plano Essencial", 0, 0)
	campaign := createTestCampaign(t, env.db, plan, "fila-falha", false)
	createTestAdmin(t, env.db, "equipe", "Equipe Indica")

	input := validMemberInput(campaign.ID, "Equipe Indica", "Maria Silva", "62981234567", "maria.silva")
	result, err := env.svc.RegisterMember(context.Background(), input)
	if err != nil {
		t.Fatalf("RegisterMember: %v", err)
	}
	reloaded, err := env.memberRepo.GetByID(result.Member.ID)
	if err != nil {
		t.Fatalf("reload member: %v", err)
	}
	if reloaded.RankingPosition == nil || *reloaded.RankingPosition != 1 {
		t.Fatalf("enqueue failure must fall back to inline recompute, got %v", reloaded.RankingPosition)
	}
}

func TestRegisterMemberInsertFailureRemovesAccount(t *testing.T) {
	db := openServiceTestDB(t)
	memberRepo := repository.NewMemberRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	accountRepo := repository.NewLoginAccountRepository(db)
	linkRepo := repository.NewReferralLinkRepository(db)

	failing := &failingMemberRepo{
		MemberRepository: memberRepo,
		createErr:        errors.New("insert indisponível"),
	}
	svc := NewRegistrationService(
		failing,
		friendRepo,
		campaignRepo,
		linkRepo,
		NewReferrerService(failing, adminRepo),
		NewCapacityService(campaignRepo, failing, friendRepo),
		NewCredentialService(accountRepo),
		NewRankingService(failing, friendRepo, campaignRepo, 1500, false),
		&fixedCepLookup{address: CepAddress{State: "GO", City: "Goiânia", Neighborhood: "Centro"}},
		nil,
	)

	plan := createTestPlan(t, db, "Plano Essencial", 0, 0)
	campaign := createTestCampaign(t, db, plan, "insert-falho", false)
	createTestAdmin(t, db, "equipe", "Equipe Indica")

	input := validMemberInput(campaign.ID, "Equipe Indica", "Maria Silva", "62981234567", "maria.silva")
	if _, err := svc.RegisterMember(context.Background(), input); err == nil {
		t.Fatalf("member insert failure must surface")
	}

	// The account issued before the failed insert is cleaned up.
	exists, err := accountRepo.UsernameExists("maria.silva")
	if err != nil {
		t.Fatalf("UsernameExists: %v", err)
	}
	if exists {
		t.Fatalf("orphaned login account left behind after failed insert")
	}
}

func TestRegisterFriendByMemberID(t *testing.T) {
	env := setupRegistrationTest(t)
	plan := createTestPlan(t, env.db, "Plano Essencial", 0, 0)
	campaign := createTestCampaign(t, env.db, plan, "amigos", false)
	owner := createTestMember(t, env.db, campaign.ID, "Maria Silva", "62981230001", "maria.silva")

	input := RegisterFriendInput{
		CampaignID:          campaign.ID,
		MemberID:            owner.ID,
		RegisterPersonInput: validPersonInput("Ana Costa", "62981234567", "ana.costa"),
	}
	result, err := env.svc.RegisterFriend(context.Background(), input)
	if err != nil {
		t.Fatalf("RegisterFriend: %v", err)
	}
	if result.Friend.Referrer != "Maria Silva" || result.Friend.MemberID != owner.ID {
		t.Fatalf("friend owner want Maria Silva/%d got %q/%d",
			owner.ID, result.Friend.Referrer, result.Friend.MemberID)
	}
	if result.Friend.Status != constants.RecordStatusActive {
		t.Fatalf("fresh friend status want Ativo got %s", result.Friend.Status)
	}

	// The owner's counters reflect the new friend immediately.
	reloaded, err := env.memberRepo.GetByID(owner.ID)
	if err != nil {
		t.Fatalf("reload owner: %v", err)
	}
	if reloaded.ContractsCompleted != 1 {
		t.Fatalf("owner contracts_completed want 1 got %d", reloaded.ContractsCompleted)
	}
	if reloaded.RankingStatus != constants.RankingStatusYellow {
		t.Fatalf("owner ranking_status want Amarelo got %s", reloaded.RankingStatus)
	}
}

func TestRegisterFriendByReferrerName(t *testing.T) {
	env := setupRegistrationTest(t)
	plan := createTestPlan(t, env.db, "Plano Essencial", 0, 0)
	campaign := createTestCampaign(t, env.db, plan, "amigos-nome", false)
	owner := createTestMember(t, env.db, campaign.ID, "Maria Silva", "62981230001", "maria.silva")
	createTestAdmin(t, env.db, "equipe", "Equipe Indica")

	input := RegisterFriendInput{
		CampaignID:          campaign.ID,
		Referrer:            "Maria Silva - Membro",
		RegisterPersonInput: validPersonInput("Ana Costa", "62981234567", "ana.costa"),
	}
	result, err := env.svc.RegisterFriend(context.Background(), input)
	if err != nil {
		t.Fatalf("RegisterFriend: %v", err)
	}
	if result.Friend.MemberID != owner.ID {
		t.Fatalf("friend owner want %d got %d", owner.ID, result.Friend.MemberID)
	}

	// Admins cannot own friends.
	input.Referrer = "Equipe Indica"
	input.Phone = "62981230009"
	input.Instagram = "bea.souza"
	input.Name = "Bea Souza"
	if _, err := env.svc.RegisterFriend(context.Background(), input); err != ErrReferrerNotFound {
		t.Fatalf("admin owner want ErrReferrerNotFound got %v", err)
	}
}

func TestRegisterFriendDuplicateAgainstMember(t *testing.T) {
	env := setupRegistrationTest(t)
	plan := createTestPlan(t, env.db, "Plano Essencial", 0, 0)
	campaign := createTestCampaign(t, env.db, plan, "amigo-duplicado", false)
	owner := createTestMember(t, env.db, campaign.ID, "Maria Silva", "62981230001", "maria.silva")

	// The phone is already held by the owner.
	input := RegisterFriendInput{
		CampaignID:          campaign.ID,
		MemberID:            owner.ID,
		RegisterPersonInput: validPersonInput("Ana Costa", "62981230001", "ana.costa"),
	}
	_, err := env.svc.RegisterFriend(context.Background(), input)
	dup, ok := AsDuplicateError(err)
	if !ok || dup.Field != "phone" {
		t.Fatalf("want duplicate phone got %v", err)
	}
}

func TestRegisterFriendDeletedOwner(t *testing.T) {
	env := setupRegistrationTest(t)
	plan := createTestPlan(t, env.db, "Plano Essencial", 0, 0)
	campaign := createTestCampaign(t, env.db, plan, "dono-removido", false)
	owner := createTestMember(t, env.db, campaign.ID, "Maria Silva", "62981230001", "maria.silva")
	if err := env.db.Model(&models.Member{}).Where("id = ?", owner.ID).
		Update("status", constants.RecordStatusInactive).Error; err != nil {
		t.Fatalf("deactivate owner: %v", err)
	}

	input := RegisterFriendInput{
		CampaignID:          campaign.ID,
		MemberID:            owner.ID,
		RegisterPersonInput: validPersonInput("Ana Costa", "62981234567", "ana.costa"),
	}
	if _, err := env.svc.RegisterFriend(context.Background(), input); err != ErrReferrerNotFound {
		t.Fatalf("inactive owner want ErrReferrerNotFound got %v", err)
	}
}
