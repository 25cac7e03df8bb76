package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"

	"github.com/sitterhub/marketplace/internal/core/domain"
)

// SQLSTATE codes the repositories care about.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
	codeQueryCanceled       = "57014"
)

// translate maps driver errors onto domain error kinds. Errors it does not
// recognize are returned unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrStoreTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		// the caller went away; not a store failure
		return fmt.Errorf("query canceled: %w", err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pqErr.Constraint)
		case codeForeignKeyViolation, codeInvalidText:
			// a malformed uuid cannot name an existing row either
			return domain.ErrNotFound
		case codeQueryCanceled:
			return fmt.Errorf("%w: %v", domain.ErrStoreTimeout, err)
		}
		if pqErr.Code.Class() == "08" {
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		return err
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return err
}
