package auth

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/Brigames121/ChatGPT-Beta/pkg/crypto"
)

const defaultHashConcurrency = 4

// Hasher bounds how many bcrypt operations run at once.
type Hasher struct {
	sem  *semaphore.Weighted
	cost int

	dummyOnce sync.Once
	dummy     []byte
	dummyErr  error
}

// NewHasher returns a Hasher running at most concurrency bcrypt calls.
func NewHasher(cost, concurrency int) *Hasher {
	if concurrency <= 0 {
		concurrency = defaultHashConcurrency
	}
	return &Hasher{sem: semaphore.NewWeighted(int64(concurrency)), cost: cost}
}

// Hash returns the bcrypt hash of plain.
func (h *Hasher) Hash(ctx context.Context, plain string) ([]byte, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer h.sem.Release(1)
	return crypto.HashPassword(plain, h.cost)
}

// Verify reports whether plain matches hash. A mismatch is not an error.
func (h *Hasher) Verify(ctx context.Context, hash []byte, plain string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)
	err := crypto.ComparePassword(hash, plain)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, crypto.ErrMismatch):
		return false, nil
	default:
		return false, err
	}
}

// VerifyDummy runs a comparison against a throwaway hash at the same cost as
// Verify. Used when no stored hash exists for the caller.
func (h *Hasher) VerifyDummy(ctx context.Context, plain string) error {
	h.dummyOnce.Do(func() {
		h.dummy, h.dummyErr = crypto.HashPassword("technobytex-dummy-credential", h.cost)
	})
	if h.dummyErr != nil {
		return h.dummyErr
	}
	_, err := h.Verify(ctx, h.dummy, plain)
	return err
}
