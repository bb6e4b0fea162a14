package prospect_test

import (
	"context"
	"errors"
	"testing"

	app "github.com/mohammadpnp/directory-import/internal/application/prospect"
	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
)

func TestRetryRejectsActiveOrFinishedJobs(t *testing.T) {
	t.Parallel()

	h := newHarness()
	jobID, _ := previewJob(t, h, people(1, 5))

	if _, err := h.retries.Retry(context.Background(), jobID); !errors.Is(err, app.ErrRetryNotAllowed) {
		t.Fatalf("expected ErrRetryNotAllowed for previewing job with a session, got %v", err)
	}

	if _, err := h.importer.ImportAll(context.Background(), app.ImportRequest{JobID: jobID, RecordIDs: []string{"p-1"}}, nil); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if _, err := h.retries.Retry(context.Background(), jobID); !errors.Is(err, app.ErrRetryNotAllowed) {
		t.Fatalf("expected ErrRetryNotAllowed for completed job, got %v", err)
	}
}

func TestRetryRecoversPreviewingJobThatLostItsSession(t *testing.T) {
	t.Parallel()

	h := newHarness()
	jobID, sessionID := previewJob(t, h, people(1, 25))
	h.buffers.Remove(jobID)

	out, err := h.retries.Retry(context.Background(), jobID)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if out.Job.ID != jobID || out.Job.Status != string(domain.StatusPreviewing) {
		t.Fatalf("unexpected job: %+v", out.Job)
	}
	if out.SessionID == "" || out.SessionID == sessionID {
		t.Fatalf("expected a fresh session, got %q", out.SessionID)
	}
	if out.Buffered != 25 {
		t.Fatalf("expected page 1 replayed, got %d records", out.Buffered)
	}
}

func TestRetryRejectsCorruptCriteria(t *testing.T) {
	t.Parallel()

	h := newHarness()
	job, err := h.jobs.Create(context.Background(), "list:abc123")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	msg := "old failure"
	if _, err := h.jobs.Transition(context.Background(), job.ID, domain.StatusFailed, domain.TransitionFields{ErrorMessage: &msg}); err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	if _, err := h.retries.Retry(context.Background(), job.ID); !errors.Is(err, app.ErrInvalidStoredQuery) {
		t.Fatalf("expected ErrInvalidStoredQuery, got %v", err)
	}
	if h.directory.callCount() != 0 {
		t.Fatal("expected no upstream call for corrupt criteria")
	}
}

func TestRetryUnknownJob(t *testing.T) {
	t.Parallel()

	h := newHarness()
	if _, err := h.retries.Retry(context.Background(), "0d9c3a52-7a1f-4d55-9b7e-3f6a2c1d8e90"); !errors.Is(err, app.ErrImportJobNotFound) {
		t.Fatalf("expected ErrImportJobNotFound, got %v", err)
	}
}
