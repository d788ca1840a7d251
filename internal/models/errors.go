package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	ErrGrantIDNotUnique          = errors.New("a grant with this grant ID already exists")
	ErrOrganizationNameNotUnique = errors.New("an organization with this name already exists")
	ErrUserEmailNotUnique        = errors.New("a user with this email already exists")

	ErrGrantsWeekFinalized = errors.New("this grants pack has been finalized and can no longer be changed")
	ErrGrantAlreadyPaid    = errors.New("funds have already been dispensed for this grant")
	ErrGrantNotApproved    = errors.New("this grant has not been approved by the council")
)
