package service

import (
	"strconv"

	"github.com/indicamais/internal/models"
	"github.com/indicamais/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const maxUsernameSuffixAttempts = 50

// Credentials is returned to the caller exactly once, at issuance.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CredentialService issues login accounts for registered members.
type CredentialService struct {
	accountRepo repository.LoginAccountRepository
}

// NewCredentialService creates a credential service.
func NewCredentialService(accountRepo repository.LoginAccountRepository) *CredentialService {
	return &CredentialService{accountRepo: accountRepo}
}

// DerivePassword builds the initial password from a normalized phone: the
// area code and the leading '9' of mobile numbers are stripped.
func DerivePassword(phone string) string {
	digits := OnlyDigits(phone)
	if len(digits) < 3 {
		return digits
	}
	local := digits[2:]
	if len(local) == 9 && local[0] == '9' {
		local = local[1:]
	}
	return local
}

// IssueAccount creates a login account for the member. The username starts
// as the normalized instagram handle and gains a numeric suffix on collision.
func (s *CredentialService) IssueAccount(campaignID uint, name, role, instagram, phone string) (*models.LoginAccount, *Credentials, error) {
	base := NormalizeInstagram(instagram)
	username, err := s.uniqueUsername(base)
	if err != nil {
		return nil, nil, err
	}

	password := DerivePassword(phone)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	account := &models.LoginAccount{
		CampaignID:   campaignID,
		Username:     username,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
	}
	if err := s.accountRepo.Create(account); err != nil {
		return nil, nil, err
	}
	return account, &Credentials{Username: username, Password: password}, nil
}

// RemoveAccount hard-deletes an issued account. Used to undo issuance when a
// later registration step fails.
func (s *CredentialService) RemoveAccount(id uint) error {
	return s.accountRepo.Delete(id)
}

func (s *CredentialService) uniqueUsername(base string) (string, error) {
	candidate := base
	for i := 0; i < maxUsernameSuffixAttempts; i++ {
		if i > 0 {
			candidate = base + strconv.Itoa(i)
		}
		exists, err := s.accountRepo.UsernameExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrUsernameExhausted
}
