package vault

import (
	"errors"
	"strings"

	"travel-vault-server/internal/ident"
	"travel-vault-server/internal/model"
	"travel-vault-server/internal/storage"
)

// DefaultNickname labels KTNs added through the number-only flow.
const DefaultNickname = "KTN"

var (
	ErrNumberRequired   = errors.New("number is required")
	ErrNicknameRequired = errors.New("nickname is required")
)

// KTNStore holds Known Traveler Numbers.
type KTNStore struct {
	*Records[model.KTN]
}

func NewKTNStore(queue *storage.Queue, namespace string) *KTNStore {
	return &KTNStore{Records: NewRecords[model.KTN](queue, namespace+"-ktn")}
}

// Add validates and stores a KTN, assigning an id when the caller did not
// provide one.
func (s *KTNStore) Add(k model.KTN) (model.KTN, error) {
	if strings.TrimSpace(k.Number) == "" {
		return model.KTN{}, ErrNumberRequired
	}
	if strings.TrimSpace(k.Nickname) == "" {
		return model.KTN{}, ErrNicknameRequired
	}
	if k.ID == "" {
		k.ID = ident.New()
	}
	s.Records.Add(k)
	return k, nil
}

// AddNumber stores a bare number under the default nickname.
func (s *KTNStore) AddNumber(number string) (model.KTN, error) {
	return s.Add(model.KTN{Number: number, Nickname: DefaultNickname})
}

// Update validates and replaces an existing KTN.
func (s *KTNStore) Update(k model.KTN) (bool, error) {
	if strings.TrimSpace(k.Number) == "" {
		return false, ErrNumberRequired
	}
	if strings.TrimSpace(k.Nickname) == "" {
		return false, ErrNicknameRequired
	}
	return s.Records.Update(k), nil
}
