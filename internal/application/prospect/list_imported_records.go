package prospect

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
)

type ListImportedRecordsInput struct {
	Target string
	Limit  int
}

type ListImportedRecords interface {
	Execute(ctx context.Context, in ListImportedRecordsInput) ([]RecordOutput, error)
}

type importedRecordLister interface {
	ListImported(ctx context.Context, target domain.TargetType, limit int) ([]domain.Record, error)
}

type listImportedRecords struct {
	repo importedRecordLister
}

func NewListImportedRecords(repo importedRecordLister) ListImportedRecords {
	return &listImportedRecords{repo: repo}
}

func (uc *listImportedRecords) Execute(ctx context.Context, in ListImportedRecordsInput) ([]RecordOutput, error) {
	target := domain.TargetType(strings.ToLower(strings.TrimSpace(in.Target)))
	if target != domain.TargetPeople && target != domain.TargetOrganizations {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTarget, in.Target)
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	records, err := uc.repo.ListImported(ctx, target, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListImportedRecords, err)
	}
	return toRecordOutputs(records), nil
}
