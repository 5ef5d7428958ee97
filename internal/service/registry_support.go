package service

import (
	"context"
	"database/sql"
	"errors"

	appErrors "github.com/noah-isme/hcw-deploy-api/pkg/errors"
)

// summaryInvalidator drops cached dashboard summaries after registry writes.
type summaryInvalidator interface {
	Invalidate(ctx context.Context)
}

func invalidateSummary(ctx context.Context, inv summaryInvalidator) {
	if inv != nil {
		inv.Invalidate(ctx)
	}
}

// lookupError maps a repository lookup failure to NOT_FOUND or INTERNAL_ERROR.
func lookupError(err error, resource string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, resource+" not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+resource)
}

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
