package prospect

import "errors"

var (
	ErrCreateImportJob      = errors.New("failed to create import job")
	ErrUpdateImportJob      = errors.New("failed to update import job")
	ErrGetImportJob         = errors.New("failed to get import job")
	ErrListImportJobs       = errors.New("failed to list import jobs")
	ErrDeleteImportJob      = errors.New("failed to delete import job")
	ErrInvalidJobID         = errors.New("invalid import job id")
	ErrImportJobNotFound    = errors.New("import job not found")
	ErrNoActiveSession      = errors.New("no active import session")
	ErrStaleSession         = errors.New("import session was replaced")
	ErrSelectionNotInBuffer = errors.New("selected records are not in the result buffer")
	ErrEmptySelection       = errors.New("no records selected")
	ErrImportInProgress     = errors.New("import already running for job")
	ErrTargetUnavailable    = errors.New("no target configured for record type")
	ErrRetryNotAllowed      = errors.New("job cannot be retried in its current state")
	ErrInvalidStoredQuery   = errors.New("stored search criteria cannot be parsed")
	ErrInvalidStatusFilter  = errors.New("unknown import job status")
	ErrInvalidTarget        = errors.New("unknown record target")
	ErrListImportedRecords  = errors.New("failed to list imported records")
)
