package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound marks a missing record.
	ErrNotFound = errors.New("registro não encontrado")
	// ErrAlreadyDeleted marks a delete target that was already removed.
	ErrAlreadyDeleted = errors.New("registro já removido")
	// ErrReferrerNotFound marks a referrer name that resolves to no active record.
	ErrReferrerNotFound = errors.New("indicador não encontrado")
	// ErrCampaignRequired marks a missing campaign scope. Programmer error:
	// every core operation takes the scope explicitly.
	ErrCampaignRequired = errors.New("campanha não informada")
	// ErrCampaignInactive marks an operation against a disabled campaign.
	ErrCampaignInactive = errors.New("campanha inativa")
	// ErrCepNotFound marks a postal code unknown to every lookup provider.
	ErrCepNotFound = errors.New("CEP não encontrado")
	// ErrInvalidCredentials marks a failed dashboard login.
	ErrInvalidCredentials = errors.New("usuário ou senha inválidos")
	// ErrUsernameExhausted marks a username base whose numeric suffixes ran out.
	ErrUsernameExhausted = errors.New("não foi possível gerar um usuário único")
)

// ValidationErrors aggregates field-level failures. Every field is validated
// before the map is returned; per field the first failing rule wins.
type ValidationErrors map[string]string

// Error joins the field messages in stable order.
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "dados inválidos"
	}
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field])
	}
	return strings.Join(parts, "; ")
}

// DuplicateError names the colliding field (phone or instagram).
type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s já cadastrado: %s", e.Field, e.Value)
}

// LimitReachedError carries the capacity snapshot for upgrade messaging.
type LimitReachedError struct {
	Kind     string
	Current  int64
	Max      int64
	PlanName string
}

func (e *LimitReachedError) Error() string {
	return fmt.Sprintf("limite do plano %s atingido: %d/%d", e.PlanName, e.Current, e.Max)
}

// AsValidationErrors extracts an aggregated field-error map, if any.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// AsDuplicateError extracts a duplicate-field error, if any.
func AsDuplicateError(err error) (*DuplicateError, bool) {
	var d *DuplicateError
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

// AsLimitReachedError extracts a capacity error, if any.
func AsLimitReachedError(err error) (*LimitReachedError, bool) {
	var l *LimitReachedError
	if errors.As(err, &l) {
		return l, true
	}
	return nil, false
}
