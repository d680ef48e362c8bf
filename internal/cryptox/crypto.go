// Package cryptox wraps bcrypt password hashing.
package cryptox

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is returned for passwords bcrypt cannot take (over
// 72 bytes). It matches common.ErrorValidation too.
var ErrPasswordTooLong = fmt.Errorf("%w: password too long", common.ErrorValidation)

// Hasher hashes and verifies passwords at a fixed bcrypt cost.
//
// It also keeps a hash of a random secret so that a lookup miss can still
// pay for one bcrypt comparison, see CompareDummy.
type Hasher struct {
	cost  int
	dummy []byte
}

// NewHasher validates cost and prepares the dummy hash.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	secret := common.GenerateRandByteArray(32)
	defer common.WipeByteArray(secret)

	dummy, err := bcrypt.GenerateFromPassword(secret, cost)
	if err != nil {
		return nil, err
	}
	return &Hasher{cost: cost, dummy: dummy}, nil
}

func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns the bcrypt hash of password. Passwords longer than 72 bytes
// are rejected with ErrPasswordTooLong.
func (h *Hasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", err
	}
	return string(b), nil
}

// Check reports whether password matches hash.
func (h *Hasher) Check(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CompareDummy burns one bcrypt comparison and always returns false.
func (h *Hasher) CompareDummy(password string) bool {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
	return false
}
