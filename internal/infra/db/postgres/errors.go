package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"

	"toy-admin/internal/domain"
)

const (
	pgUniqueViolation   = "23505"
	pgCheckViolation    = "23514"
	pgAdminShutdown     = "57P01"
	pgCrashShutdown     = "57P02"
	pgCannotConnectNow  = "57P03"
	pgConnectionClass   = "08"
	activationCodeIndex = "mqtt_auth_activation_code_key"
)

// mapPgErr translates driver errors into domain errors. Unique violations on
// the activation code become domain.ErrDuplicateKey so issuance can retry;
// other unique violations become domain.ErrAlreadyExists. Connectivity
// failures become domain.ErrStoreUnavailable.
func mapPgErr(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == activationCodeIndex:
			return fmt.Errorf("%w: %s", domain.ErrDuplicateKey, pgErr.Detail)
		case pgErr.Code == pgUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, pgErr.ConstraintName)
		case pgErr.Code == pgCheckViolation:
			return fmt.Errorf("%w: %s", domain.ErrInvalidArgument, pgErr.ConstraintName)
		case strings.HasPrefix(pgErr.Code, pgConnectionClass),
			pgErr.Code == pgAdminShutdown,
			pgErr.Code == pgCrashShutdown,
			pgErr.Code == pgCannotConnectNow:
			return fmt.Errorf("%w: %s", domain.ErrStoreUnavailable, pgErr.Message)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if pgconn.SafeToRetry(err) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return err
}
