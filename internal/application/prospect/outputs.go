package prospect

import (
	"time"

	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
)

type JobOutput struct {
	ID             string    `json:"id"`
	SearchCriteria string    `json:"search_criteria"`
	Status         string    `json:"status"`
	TotalResults   int64     `json:"total_results"`
	ImportedCount  int64     `json:"imported_count"`
	ProcessedCount int64     `json:"processed_count"`
	FailedCount    int64     `json:"failed_count"`
	SkippedCount   int64     `json:"skipped_count"`
	CreditsUsed    int64     `json:"credits_used"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type PaginationOutput struct {
	Page         int   `json:"page"`
	PerPage      int   `json:"per_page"`
	TotalEntries int64 `json:"total_entries"`
	TotalPages   int   `json:"total_pages"`
	HasMore      bool  `json:"has_more"`
}

// RecordOutput flattens both record kinds; Type tells which fields apply.
type RecordOutput struct {
	Type               string   `json:"type"`
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Title              string   `json:"title,omitempty"`
	Seniority          string   `json:"seniority,omitempty"`
	Email              string   `json:"email,omitempty"`
	EmailStatus        string   `json:"email_status,omitempty"`
	Phone              string   `json:"phone,omitempty"`
	LinkedInURL        string   `json:"linkedin_url,omitempty"`
	City               string   `json:"city,omitempty"`
	State              string   `json:"state,omitempty"`
	Country            string   `json:"country,omitempty"`
	OrganizationID     string   `json:"organization_id,omitempty"`
	OrganizationName   string   `json:"organization_name,omitempty"`
	OrganizationDomain string   `json:"organization_domain,omitempty"`
	ContactScore       *float64 `json:"contact_score,omitempty"`
	Domain             string   `json:"domain,omitempty"`
	WebsiteURL         string   `json:"website_url,omitempty"`
	Industry           string   `json:"industry,omitempty"`
	EmployeeCount      int      `json:"employee_count,omitempty"`
	FoundedYear        int      `json:"founded_year,omitempty"`
}

type SearchOutput struct {
	Job          JobOutput        `json:"job"`
	SessionID    string           `json:"session_id,omitempty"`
	Records      []RecordOutput   `json:"records"`
	Pagination   PaginationOutput `json:"pagination"`
	ListName     string           `json:"list_name,omitempty"`
	UsedFallback bool             `json:"used_fallback"`
	Buffered     int              `json:"buffered"`
	Exhausted    bool             `json:"exhausted"`
}

func toJobOutput(job domain.ImportJob) JobOutput {
	return JobOutput{
		ID:             job.ID,
		SearchCriteria: job.SearchCriteria,
		Status:         string(job.Status),
		TotalResults:   job.TotalResults,
		ImportedCount:  job.ImportedCount,
		ProcessedCount: job.ProcessedCount,
		FailedCount:    job.FailedCount,
		SkippedCount:   job.SkippedCount,
		CreditsUsed:    job.CreditsUsed,
		ErrorMessage:   job.ErrorMessage,
		CreatedAt:      job.CreatedAt,
		UpdatedAt:      job.UpdatedAt,
	}
}

func toPaginationOutput(p domain.Pagination) PaginationOutput {
	return PaginationOutput{
		Page:         p.Page,
		PerPage:      p.PerPage,
		TotalEntries: p.TotalEntries,
		TotalPages:   p.TotalPages,
		HasMore:      p.HasNext(),
	}
}

func toRecordOutputs(records []domain.Record) []RecordOutput {
	out := make([]RecordOutput, 0, len(records))
	for _, record := range records {
		switch r := record.(type) {
		case domain.Person:
			out = append(out, RecordOutput{
				Type:               string(domain.TargetPeople),
				ID:                 r.ID,
				Name:               r.DisplayName(),
				Title:              r.Title,
				Seniority:          r.Seniority,
				Email:              r.Email,
				EmailStatus:        r.EmailStatus,
				Phone:              r.Phone,
				LinkedInURL:        r.LinkedInURL,
				City:               r.City,
				State:              r.State,
				Country:            r.Country,
				OrganizationID:     r.OrganizationID,
				OrganizationName:   r.OrganizationName,
				OrganizationDomain: r.OrganizationDomain,
				ContactScore:       r.ContactScore,
			})
		case domain.Organization:
			out = append(out, RecordOutput{
				Type:          string(domain.TargetOrganizations),
				ID:            r.ID,
				Name:          r.Name,
				Phone:         r.Phone,
				LinkedInURL:   r.LinkedInURL,
				City:          r.City,
				State:         r.State,
				Country:       r.Country,
				Domain:        r.Domain,
				WebsiteURL:    r.WebsiteURL,
				Industry:      r.Industry,
				EmployeeCount: r.EmployeeCount,
				FoundedYear:   r.FoundedYear,
			})
		}
	}
	return out
}

func snapshotOutput(job domain.ImportJob, buffer *domain.ResultBuffer, records []domain.Record) SearchOutput {
	return SearchOutput{
		Job:          toJobOutput(job),
		SessionID:    buffer.SessionID(),
		Records:      toRecordOutputs(records),
		Pagination:   toPaginationOutput(buffer.Pagination()),
		ListName:     buffer.ListName(),
		UsedFallback: buffer.UsedFallback(),
		Buffered:     buffer.Len(),
		Exhausted:    buffer.Exhausted(),
	}
}
