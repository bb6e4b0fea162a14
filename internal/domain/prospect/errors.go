package prospect

import (
	"errors"
	"fmt"
)

var (
	ErrJobNotFound       = errors.New("import job not found")
	ErrStaleJob          = errors.New("import job changed concurrently")
	ErrIllegalTransition = errors.New("illegal import job transition")
	ErrInvalidCriteria   = errors.New("invalid search criteria")
	ErrInvalidList       = errors.New("invalid directory list")
	ErrNoMatches         = errors.New("no directory records match the criteria")
	ErrUpstream          = errors.New("directory upstream error")
	ErrRateLimited       = errors.New("directory rate or credit limit reached")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrInvalidRecord     = errors.New("invalid directory record")
	ErrMixedTargets      = errors.New("records belong to different targets")
	ErrLoadInProgress    = errors.New("a page load is already in progress")
	ErrNoMorePages       = errors.New("no more result pages")
	ErrPageOutOfOrder    = errors.New("result page is not the next page")
)

// IllegalTransitionError is returned by the job store when a status change is not in
// the transition table. It indicates a caller bug, not an operator mistake.
type IllegalTransitionError struct {
	JobID string
	From  JobStatus
	To    JobStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition for job %s: %s -> %s", e.JobID, e.From, e.To)
}

func (e *IllegalTransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

// InvalidListError means the list id/type pair yields no accessible records.
type InvalidListError struct {
	ListID   string
	ListType ListType
	Reason   string
}

func (e *InvalidListError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("list %s (%s) is empty or does not exist", e.ListID, e.ListType)
	}
	return fmt.Sprintf("list %s (%s): %s", e.ListID, e.ListType, e.Reason)
}

func (e *InvalidListError) Is(target error) bool {
	return target == ErrInvalidList
}

// UpstreamError wraps transport failures and non-2xx answers from the directory.
// StatusCode is 0 when the request never got a response.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("directory request failed: %s", e.Message)
	}
	return fmt.Sprintf("directory returned %d: %s", e.StatusCode, e.Message)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

type RateLimitedError struct {
	StatusCode int
	Message    string
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("directory limit reached (%d): %s", e.StatusCode, e.Message)
}

func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}
