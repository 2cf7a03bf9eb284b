package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/indicamais/internal/constants"
	"github.com/indicamais/internal/models"
	"github.com/indicamais/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Plan{},
		&models.Campaign{},
		&models.Admin{},
		&models.Member{},
		&models.Friend{},
		&models.LoginAccount{},
		&models.ReferralLink{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createTestPlan(t *testing.T, db *gorm.DB, name string, maxMembers, maxFriends int) *models.Plan {
	t.Helper()
	plan := &models.Plan{Name: name, MaxMembers: maxMembers, MaxFriends: maxFriends}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("create plan: %v", err)
	}
	return plan
}

func createTestCampaign(t *testing.T, db *gorm.DB, plan *models.Plan, slug string, paidPhase bool) *models.Campaign {
	t.Helper()
	campaign := &models.Campaign{
		Name:               "Campanha " + slug,
		Slug:               slug,
		PlanID:             plan.ID,
		Status:             constants.CampaignStatusActive,
		PaidContractsPhase: paidPhase,
	}
	if err := db.Create(campaign).Error; err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	return campaign
}

func createTestAdmin(t *testing.T, db *gorm.DB, username, name string) *models.Admin {
	t.Helper()
	admin := &models.Admin{Username: username, PasswordHash: "x", Name: name}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return admin
}

func createTestMember(t *testing.T, db *gorm.DB, campaignID uint, name, phone, instagram string) *models.Member {
	t.Helper()
	member := &models.Member{
		CampaignID:    campaignID,
		Name:          name,
		Phone:         phone,
		Instagram:     instagram,
		Role:          constants.RoleMember,
		Status:        constants.RecordStatusActive,
		RankingStatus: constants.RankingStatusRed,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("create member: %v", err)
	}
	return member
}

func createTestFriend(t *testing.T, db *gorm.DB, campaignID, memberID uint, name, phone, instagram string) *models.Friend {
	t.Helper()
	friend := &models.Friend{
		CampaignID: campaignID,
		MemberID:   memberID,
		Name:       name,
		Phone:      phone,
		Instagram:  instagram,
		Status:     constants.RecordStatusActive,
	}
	if err := db.Create(friend).Error; err != nil {
		t.Fatalf("create friend: %v", err)
	}
	return friend
}

// fixedCepLookup answers every lookup with the same address.
type fixedCepLookup struct {
	address CepAddress
	err     error
}

func (f *fixedCepLookup) Lookup(ctx context.Context, cep string) (*CepAddress, error) {
	if f.err != nil {
		return nil, f.err
	}
	address := f.address
	address.Cep = cep
	return &address, nil
}

// recordingEnqueuer captures enqueued campaign recomputes.
type recordingEnqueuer struct {
	enabled     bool
	failNext    error
	campaignIDs []uint
}

func (r *recordingEnqueuer) EnqueueCampaignRankingRecompute(campaignID uint) error {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	r.campaignIDs = append(r.campaignIDs, campaignID)
	return nil
}

func (r *recordingEnqueuer) Enabled() bool {
	return r.enabled
}

// failingMemberRepo fails Create on demand, passing everything else through.
type failingMemberRepo struct {
	repository.MemberRepository
	createErr error
}

func (r *failingMemberRepo) Create(member *models.Member) error {
	if r.createErr != nil {
		return r.createErr
	}
	return r.MemberRepository.Create(member)
}
