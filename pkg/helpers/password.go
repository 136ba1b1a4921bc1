package helpers

import "golang.org/x/crypto/bcrypt"

// PasswordHasher wraps bcrypt with an injected cost factor so the work
// factor can be raised over time without touching call sites. bcrypt
// generates a fresh salt per call and embeds salt+cost in the output,
// so verification is self-describing.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash hashes the plaintext password. A failure here is fatal to the
// enclosing create/update operation.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compares a stored bcrypt hash with a plaintext candidate.
// The comparison inside bcrypt is constant-time. A malformed stored
// hash yields false, never an error visible to the caller.
func (h *PasswordHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
