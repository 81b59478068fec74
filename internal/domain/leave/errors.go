package leave

import "errors"

var (
	ErrLeaveNotFound       = errors.New("leave request not found")
	ErrLeaveAlreadyDecided = errors.New("leave request has already been decided")
	ErrInvalidDecision     = errors.New("decision must be approve or reject")
	ErrInvalidDateRange    = errors.New("end_date must not be before start_date")
	ErrOverlappingLeave    = errors.New("an open leave request already covers these dates")
)
