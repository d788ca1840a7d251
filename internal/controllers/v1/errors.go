package v1

import (
	"errors"
	"net/http"

	"github.com/grantflow/backend/internal/models"
)

// status translates an error into the appropriate HTTP status.
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

var (
	errWrongSecurityKey   = errors.New("the security key is missing or wrong")
	errGrantIDMissing     = errors.New("the grant_id parameter must be set")
	errReceiptsExist      = errors.New("receipts were already submitted for this grant, use the resubmission endpoint to replace them")
	errNotSmallGrant      = errors.New("this grant is not a small grant")
	errSmallGrantNoInterview = errors.New("small grants are reviewed without an interview")
	errPackNotFinalized   = errors.New("the grants pack must be finalized before it can be approved")
	errInvalidCredentials = errors.New("invalid email or password")
	errPasswordMissing    = errors.New("a password must be set")
	errNotUpfront         = errors.New("this grant is not an upfront grant")
	errNoReimbursementDue = errors.New("this grant does not owe the council a reimbursement")
	errReceiptsNotSubmitted = errors.New("no receipts have been submitted for this grant")
	errInvalidAllocationCategory = errors.New("an allocation references an unknown funding category")
)
