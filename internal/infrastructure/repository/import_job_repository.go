package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
	"github.com/mohammadpnp/directory-import/internal/infrastructure/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ImportJobRepository struct {
	db *gorm.DB
}

func NewImportJobRepository(db *gorm.DB) *ImportJobRepository {
	return &ImportJobRepository{db: db}
}

func (r *ImportJobRepository) Create(ctx context.Context, searchCriteria string) (domain.ImportJob, error) {
	job := models.ImportJob{
		SearchCriteria: searchCriteria,
		Status:         string(domain.StatusPending),
	}

	if err := r.db.WithContext(ctx).Create(&job).Error; err != nil {
		return domain.ImportJob{}, fmt.Errorf("create import job: %w", err)
	}

	return toDomainJob(job), nil
}

// Transition changes the status with a single conditional UPDATE ... RETURNING, so
// two callers racing on the same job cannot both move it out of the same source
// status and the returned job is the row this update wrote.
func (r *ImportJobRepository) Transition(ctx context.Context, jobID string, to domain.JobStatus, fields domain.TransitionFields) (domain.ImportJob, error) {
	if !isUUID(jobID) {
		return domain.ImportJob{}, domain.ErrJobNotFound
	}
	sources := domain.SourceStatuses(to)
	if len(sources) == 0 {
		current, err := r.Get(ctx, jobID)
		if err != nil {
			return domain.ImportJob{}, err
		}
		return domain.ImportJob{}, &domain.IllegalTransitionError{JobID: jobID, From: current.Status, To: to}
	}

	updates := map[string]any{
		"status":     string(to),
		"updated_at": time.Now().UTC(),
	}
	if fields.TotalResults != nil {
		updates["total_results"] = *fields.TotalResults
	}
	if fields.ImportedCount != nil {
		updates["imported_count"] = *fields.ImportedCount
	}
	switch {
	case fields.ErrorMessage != nil:
		updates["error_message"] = *fields.ErrorMessage
	case to != domain.StatusFailed:
		updates["error_message"] = nil
	}
	if to == domain.StatusImporting {
		updates["processed_count"] = 0
		updates["failed_count"] = 0
		updates["skipped_count"] = 0
		updates["credits_used"] = 0
		if fields.ImportedCount == nil {
			updates["imported_count"] = 0
		}
	}

	row := models.ImportJob{ID: jobID}
	res := r.db.WithContext(ctx).
		Model(&row).
		Clauses(clause.Returning{}).
		Where("id = ? AND status IN ?", jobID, statusStrings(sources)).
		Updates(updates)
	if res.Error != nil {
		return domain.ImportJob{}, fmt.Errorf("transition import job: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		// only the rejection reads the row again, to report where the job stands
		current, err := r.Get(ctx, jobID)
		if err != nil {
			return domain.ImportJob{}, err
		}
		return domain.ImportJob{}, &domain.IllegalTransitionError{JobID: jobID, From: current.Status, To: to}
	}

	return toDomainJob(row), nil
}

// UpdateProgress only touches importing jobs. Zero affected rows means the job was
// deleted or moved on while the import was running.
func (r *ImportJobRepository) UpdateProgress(ctx context.Context, jobID string, progress domain.ImportProgress) error {
	if !isUUID(jobID) {
		return domain.ErrJobNotFound
	}

	res := r.db.WithContext(ctx).
		Model(&models.ImportJob{}).
		Where("id = ? AND status = ?", jobID, string(domain.StatusImporting)).
		Updates(map[string]any{
			"processed_count": progress.ProcessedCount,
			"imported_count":  progress.ImportedCount,
			"failed_count":    progress.FailedCount,
			"skipped_count":   progress.SkippedCount,
			"credits_used":    progress.CreditsUsed,
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("update import progress: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrStaleJob
	}

	return nil
}

func (r *ImportJobRepository) Get(ctx context.Context, jobID string) (domain.ImportJob, error) {
	if !isUUID(jobID) {
		return domain.ImportJob{}, domain.ErrJobNotFound
	}

	var row models.ImportJob
	err := r.db.WithContext(ctx).First(&row, "id = ?", jobID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ImportJob{}, domain.ErrJobNotFound
		}
		return domain.ImportJob{}, fmt.Errorf("get import job: %w", err)
	}

	return toDomainJob(row), nil
}

func (r *ImportJobRepository) List(ctx context.Context, filter domain.JobFilter) ([]domain.ImportJob, error) {
	query := r.db.WithContext(ctx).Model(&models.ImportJob{}).Order("created_at DESC, id")
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []models.ImportJob
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list import jobs: %w", err)
	}

	jobs := make([]domain.ImportJob, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, toDomainJob(row))
	}
	return jobs, nil
}

func (r *ImportJobRepository) Delete(ctx context.Context, jobID string) error {
	if !isUUID(jobID) {
		return domain.ErrJobNotFound
	}

	res := r.db.WithContext(ctx).Delete(&models.ImportJob{}, "id = ?", jobID)
	if res.Error != nil {
		return fmt.Errorf("delete import job: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func toDomainJob(row models.ImportJob) domain.ImportJob {
	job := domain.ImportJob{
		ID:             row.ID,
		SearchCriteria: row.SearchCriteria,
		Status:         domain.JobStatus(row.Status),
		TotalResults:   row.TotalResults,
		ImportedCount:  row.ImportedCount,
		ProcessedCount: row.ProcessedCount,
		FailedCount:    row.FailedCount,
		SkippedCount:   row.SkippedCount,
		CreditsUsed:    row.CreditsUsed,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if row.ErrorMessage != nil {
		job.ErrorMessage = *row.ErrorMessage
	}
	return job
}

func statusStrings(statuses []domain.JobStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

// ids reach the store straight from URLs; postgres rejects malformed uuids with an
// error instead of returning no rows.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
