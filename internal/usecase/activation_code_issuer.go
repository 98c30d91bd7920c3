package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"toy-admin/internal/domain"
	"toy-admin/internal/domain/model"
	"toy-admin/internal/domain/ports/repository"
	"toy-admin/internal/infra/logging"
	"toy-admin/internal/infra/metrics"

	"github.com/rs/zerolog"
)

const (
	defaultIssueAttempts  = 20
	defaultIssueTimeout   = 5 * time.Second
	defaultReservationTTL = 30 * time.Second
	releaseTimeout        = 2 * time.Second
)

// CodeLookup is the store the issuer checks candidates against.
type CodeLookup interface {
	ExistsByActivationCode(ctx context.Context, tx repository.Tx, code string) (bool, error)
}

// CodeReserver holds a candidate code for the short window between the
// uniqueness check and the insert so concurrent issuers skip it.
type CodeReserver interface {
	// Reserve returns false when another caller already holds code.
	Reserve(ctx context.Context, code string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, code string) error
}

// PersistFunc stores a candidate code. It must return domain.ErrDuplicateKey
// when the unique constraint on the code rejects the write.
type PersistFunc func(ctx context.Context, code string) error

// IssuerOptions tunes ActivationCodeIssuer. Zero values pick defaults.
type IssuerOptions struct {
	MaxAttempts    int
	Timeout        time.Duration
	ReservationTTL time.Duration
	Reserver       CodeReserver
	// Source draws a candidate in [ActivationCodeMin, ActivationCodeMax].
	// Defaults to crypto/rand.
	Source func() (int, error)
}

// ActivationCodeIssuer hands out six-digit activation codes that no device
// credential currently holds.
type ActivationCodeIssuer struct {
	lookup      CodeLookup
	reserver    CodeReserver
	source      func() (int, error)
	maxAttempts int
	timeout     time.Duration
	ttl         time.Duration
	log         *zerolog.Logger
}

func NewActivationCodeIssuer(lookup CodeLookup, opts IssuerOptions, logger *zerolog.Logger) *ActivationCodeIssuer {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultIssueAttempts
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultIssueTimeout
	}
	if opts.ReservationTTL <= 0 {
		opts.ReservationTTL = defaultReservationTTL
	}
	if opts.Source == nil {
		opts.Source = randomCode
	}
	l := logger.With().Str("component", "activation_code_issuer").Logger()
	return &ActivationCodeIssuer{
		lookup:      lookup,
		reserver:    opts.Reserver,
		source:      opts.Source,
		maxAttempts: opts.MaxAttempts,
		timeout:     opts.Timeout,
		ttl:         opts.ReservationTTL,
		log:         &l,
	}
}

// Next returns a code that was free at the moment it was checked. Callers that
// store the code themselves should prefer Issue, which retries when the write
// loses a race.
func (i *ActivationCodeIssuer) Next(ctx context.Context) (string, error) {
	defer logging.TraceDuration(i.log, "ActivationCodeIssuer.Next")()
	return i.run(ctx, nil)
}

// Issue draws candidates until persist accepts one. Collisions seen by the
// lookup, the reserver or the unique constraint all count against the same
// attempt budget; once it is spent the result is domain.ErrCodeSpaceExhausted.
// A store failure aborts immediately.
func (i *ActivationCodeIssuer) Issue(ctx context.Context, persist PersistFunc) (string, error) {
	defer logging.TraceDuration(i.log, "ActivationCodeIssuer.Issue")()
	if persist == nil {
		return "", fmt.Errorf("%w: nil persist func", domain.ErrInvalidArgument)
	}
	return i.run(ctx, persist)
}

func (i *ActivationCodeIssuer) run(ctx context.Context, persist PersistFunc) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()
	log := logging.With(ctx, i.log)

	for attempt := 1; attempt <= i.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			metrics.ObserveIssuanceAttempts(attempt - 1)
			if errors.Is(err, context.Canceled) {
				metrics.IncIssuance("canceled")
				return "", err
			}
			metrics.IncIssuance("store_unavailable")
			return "", fmt.Errorf("%w: issuance deadline: %v", domain.ErrStoreUnavailable, err)
		}

		n, err := i.source()
		if err != nil {
			metrics.IncIssuance("error")
			return "", fmt.Errorf("draw activation code: %w", err)
		}
		code := strconv.Itoa(n)
		if !model.ValidActivationCode(code) {
			return "", fmt.Errorf("%w: candidate %d out of range", domain.ErrInvalidArgument, n)
		}

		taken, err := i.lookup.ExistsByActivationCode(ctx, repository.NoTX, code)
		if err != nil {
			metrics.IncIssuance("store_unavailable")
			metrics.ObserveIssuanceAttempts(attempt)
			log.Error().Err(err).Int("attempt", attempt).Msg("activation code lookup failed")
			return "", fmt.Errorf("check activation code: %w", err)
		}
		if taken {
			metrics.IncCodeCollision("lookup")
			continue
		}

		if persist == nil {
			metrics.IncIssuance("issued")
			metrics.ObserveIssuanceAttempts(attempt)
			return code, nil
		}

		ok, err := i.tryPersist(ctx, code, persist)
		if err != nil {
			if errors.Is(err, domain.ErrStoreUnavailable) {
				metrics.IncIssuance("store_unavailable")
			} else {
				metrics.IncIssuance("error")
			}
			metrics.ObserveIssuanceAttempts(attempt)
			return "", err
		}
		if ok {
			metrics.IncIssuance("issued")
			metrics.ObserveIssuanceAttempts(attempt)
			if attempt > 1 {
				log.Debug().Int("attempts", attempt).Msg("activation code issued after collisions")
			}
			return code, nil
		}
	}

	metrics.IncIssuance("exhausted")
	metrics.ObserveIssuanceAttempts(i.maxAttempts)
	log.Warn().Int("attempts", i.maxAttempts).Msg("no free activation code found")
	return "", fmt.Errorf("%w: no free code after %d attempts", domain.ErrCodeSpaceExhausted, i.maxAttempts)
}

// tryPersist reports false when the code was taken by someone else and the
// caller should draw again.
func (i *ActivationCodeIssuer) tryPersist(ctx context.Context, code string, persist PersistFunc) (bool, error) {
	if i.reserver != nil {
		held, err := i.reserver.Reserve(ctx, code, i.ttl)
		switch {
		case err != nil:
			// the unique constraint still guards the write
			i.log.Warn().Err(err).Msg("code reservation unavailable, relying on constraint")
		case !held:
			metrics.IncCodeCollision("reserved")
			return false, nil
		default:
			defer i.release(ctx, code)
		}
	}

	err := persist(ctx, code)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrDuplicateKey):
		metrics.IncCodeCollision("duplicate_key")
		return false, nil
	default:
		return false, err
	}
}

func (i *ActivationCodeIssuer) release(ctx context.Context, code string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := i.reserver.Release(ctx, code); err != nil {
		i.log.Warn().Err(err).Msg("failed to release code reservation")
	}
}

var codeSpan = big.NewInt(model.ActivationCodeSpace)

func randomCode() (int, error) {
	n, err := rand.Int(rand.Reader, codeSpan)
	if err != nil {
		return 0, err
	}
	return model.ActivationCodeMin + int(n.Int64()), nil
}
