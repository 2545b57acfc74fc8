package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// ErrCodeGenerationExhausted is returned when every regeneration attempt
// collided with an existing code. Retries are bounded to avoid livelock
// under pathological collision rates.
var ErrCodeGenerationExhausted = errors.New("could not generate a unique referral code")

const referralCodePrefix = "GM"

// generateReferralCode produces a shareable candidate code. Uniqueness is
// not checked here; the store's unique constraint is the arbiter, and
// callers regenerate on an insert collision.
func generateReferralCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%06d", referralCodePrefix, n.Int64()), nil
}
