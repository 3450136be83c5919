// Package idempotency guards side effects behind a caller supplied key using
// Redis as the shared state store.
package idempotency

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrAlreadyInProgress is returned when another request holds the key.
	ErrAlreadyInProgress = errors.New("operation already in progress")
	// ErrAlreadyCompleted is returned when the key already finished successfully.
	ErrAlreadyCompleted = errors.New("operation already completed")
	// ErrInvalidState is returned when the stored value is not a known State.
	ErrInvalidState = errors.New("invalid state")
	// ErrFingerprintMismatch is returned when a key is reused for a different payload.
	ErrFingerprintMismatch = errors.New("idempotency key reused with a different payload")
)

type State string

const (
	StateNone       State = "none"        // operation can proceed
	StateInProgress State = "in_progress" // operation already in progress
	StateCompleted  State = "completed"   // operation already completed
	StateError      State = "error"       // this operation error
)

func (s State) String() string {
	return string(s)
}

// Idempotency tracks the lifecycle of keyed operations.
type Idempotency interface {
	Acquire(ctx context.Context, key, fingerprint string, lockDuration time.Duration) (State, error)
	MarkCompleted(ctx context.Context, key, fingerprint string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

type StateTracker struct {
	client redis.UniversalClient
	prefix string
}

func New(client redis.UniversalClient) *StateTracker {
	return &StateTracker{
		client: client,
		prefix: "idempotency:",
	}
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = 24 * time.Hour
)

type Option func(*execOptions)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
	fingerprint  string
}

func WithLockDuration(lockDuration time.Duration) Option {
	return func(o *execOptions) {
		o.lockDuration = lockDuration
	}
}

func WithStateTTL(stateTTL time.Duration) Option {
	return func(o *execOptions) {
		o.stateTTL = stateTTL
	}
}

// WithFingerprint binds the key to a digest of the guarded payload. A later
// call with the same key and another fingerprint fails with
// ErrFingerprintMismatch.
func WithFingerprint(fingerprint string) Option {
	return func(o *execOptions) {
		o.fingerprint = fingerprint
	}
}

// stored values are "<state>" or "<state>:<fingerprint>"
func encode(state State, fingerprint string) string {
	if fingerprint == "" {
		return state.String()
	}
	return state.String() + ":" + fingerprint
}

func decode(value string) (State, string) {
	state, fingerprint, _ := strings.Cut(value, ":")
	return State(state), fingerprint
}

// Acquire tries to start an operation
func (s *StateTracker) Acquire(ctx context.Context, key, fingerprint string, lockDuration time.Duration) (State, error) {
	fk := s.prefix + key
	value := encode(StateInProgress, fingerprint)

	acquired, err := s.client.SetNX(ctx, fk, value, lockDuration).Result()
	if err != nil {
		return StateError, err
	}
	if acquired {
		return StateNone, nil
	}

	result, err := s.client.Get(ctx, fk).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SetNX and Get
		acquired, err = s.client.SetNX(ctx, fk, value, lockDuration).Result()
		if err != nil {
			return StateError, err
		}
		if acquired {
			return StateNone, nil
		}
		return StateError, ErrInvalidState
	}
	if err != nil {
		return StateError, err
	}

	state, stored := decode(result)
	if state != StateInProgress && state != StateCompleted {
		return StateError, ErrInvalidState
	}
	if stored != fingerprint {
		return StateError, ErrFingerprintMismatch
	}

	return state, nil
}

func (s *StateTracker) MarkCompleted(ctx context.Context, key, fingerprint string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, encode(StateCompleted, fingerprint), ttl).Err()
}

// Release drops the key so that a later request may try again.
func (s *StateTracker) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Exec runs fn at most once per key until the completed state expires.
//
// A failed fn releases the key instead of recording the failure, so the
// caller may retry with the same key. Once fn succeeds Exec returns nil even
// if the completed state cannot be stored; the failure is only logged.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	execOpt := &execOptions{
		lockDuration: defaultLockDuration,
		stateTTL:     defaultStateTTL,
	}
	for _, opt := range opts {
		opt(execOpt)
	}
	if execOpt.lockDuration <= 0 {
		execOpt.lockDuration = defaultLockDuration
	}
	if execOpt.stateTTL <= 0 {
		execOpt.stateTTL = defaultStateTTL
	}

	state, err := s.Acquire(ctx, key, execOpt.fingerprint, execOpt.lockDuration)
	if err != nil {
		return err
	}

	switch state {
	case StateInProgress:
		return ErrAlreadyInProgress
	case StateCompleted:
		return ErrAlreadyCompleted
	}

	if err := fn(ctx); err != nil {
		if relErr := s.Release(context.WithoutCancel(ctx), key); relErr != nil {
			return errors.Join(err, relErr)
		}
		return err
	}

	if err := s.MarkCompleted(context.WithoutCancel(ctx), key, execOpt.fingerprint, execOpt.stateTTL); err != nil {
		slog.ErrorContext(ctx, "failed to mark idempotency key completed", "key", key, "error", err)
	}

	return nil
}
