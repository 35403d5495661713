package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultCost is the bcrypt cost used when none is configured.
const DefaultCost = 12

// Hasher turns plaintext passwords into bcrypt hashes and checks them.
//
// bcrypt is CPU bound by design, so every call takes a slot from a weighted
// semaphore first. The number of slots caps how many hashes run at once and
// keeps a burst of logins from starving the rest of the process.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewHasher returns a Hasher with the given bcrypt cost and worker budget.
func NewHasher(cost int, workers int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, NewError(CodeConfiguration, fmt.Sprintf("bcrypt cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cost), nil)
	}
	if workers < 1 {
		return nil, NewError(CodeConfiguration, fmt.Sprintf("hash workers must be positive, got %d", workers), nil)
	}
	return &Hasher{cost: cost, sem: semaphore.NewWeighted(int64(workers))}, nil
}

// Hash returns a salted bcrypt hash of plaintext. Two calls with the same
// input produce different hashes.
//
// ctx only bounds the wait for a worker slot; a started hash runs to the end.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", NewError(CodeHashing, "waiting for hash worker", err)
	}
	defer h.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", NewError(CodeHashing, "generate hash", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches storedHash.
//
// A mismatch, a stored value too short to be a bcrypt hash and a plaintext
// longer than bcrypt accepts all yield (false, nil). An error is returned only
// when the stored hash is a corrupt bcrypt encoding (bad prefix, version or
// cost) or no worker slot could be obtained.
func (h *Hasher) Verify(ctx context.Context, plaintext, storedHash string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, NewError(CodeHashing, "waiting for hash worker", err)
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword),
		errors.Is(err, bcrypt.ErrHashTooShort),
		errors.Is(err, bcrypt.ErrPasswordTooLong):
		return false, nil
	default:
		return false, NewError(CodeHashing, "compare hash", err)
	}
}

// Cost returns the configured bcrypt cost.
func (h *Hasher) Cost() int {
	return h.cost
}
