package vault

import (
	"errors"
	"strings"

	"travel-vault-server/internal/ident"
	"travel-vault-server/internal/model"
	"travel-vault-server/internal/storage"
)

var ErrMemberNumberRequired = errors.New("member number is required")

// LoyaltyStore holds airline and hotel loyalty memberships.
type LoyaltyStore struct {
	*Records[model.LoyaltyProgram]
}

func NewLoyaltyStore(queue *storage.Queue, namespace string) *LoyaltyStore {
	return &LoyaltyStore{Records: NewRecords[model.LoyaltyProgram](queue, namespace+"-loyalty")}
}

// Add validates and stores a program, assigning an id when the caller did not
// provide one.
func (s *LoyaltyStore) Add(p model.LoyaltyProgram) (model.LoyaltyProgram, error) {
	if strings.TrimSpace(p.MemberNumber) == "" {
		return model.LoyaltyProgram{}, ErrMemberNumberRequired
	}
	if p.ID == "" {
		p.ID = ident.New()
	}
	s.Records.Add(p)
	return p, nil
}

// Update validates and replaces an existing program.
func (s *LoyaltyStore) Update(p model.LoyaltyProgram) (bool, error) {
	if strings.TrimSpace(p.MemberNumber) == "" {
		return false, ErrMemberNumberRequired
	}
	return s.Records.Update(p), nil
}
