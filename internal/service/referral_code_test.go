package service

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReferralCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^GM[0-9]{6}$`)

	for i := 0; i < 100; i++ {
		code, err := generateReferralCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestGenerateReferralCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := generateReferralCode()
		require.NoError(t, err)
		seen[code] = true
	}
	// 50 draws from a million-value space colliding down to 1 value would
	// mean the generator is broken.
	assert.Greater(t, len(seen), 1)
}
