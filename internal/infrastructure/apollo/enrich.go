package apollo

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
)

const maxBulkSize = domain.MaxBatchSize

type bulkMatchDetail struct {
	ID string `json:"id"`
}

type bulkMatchRequest struct {
	Details              []bulkMatchDetail `json:"details"`
	RevealPersonalEmails bool              `json:"reveal_personal_emails"`
}

type bulkMatchResponse struct {
	Matches         []*person `json:"matches"`
	CreditsConsumed *int      `json:"credits_consumed"`
}

type bulkEnrichRequest struct {
	Domains []string `json:"domains"`
}

type bulkEnrichResponse struct {
	Organizations   []*organization `json:"organizations"`
	CreditsConsumed *int            `json:"credits_consumed"`
}

// Enrich reveals contact details for up to maxBulkSize records. It is billable
// and sent once, without retries. Records Apollo could not match are left out.
func (c *Client) Enrich(ctx context.Context, target domain.TargetType, records []domain.Record) (domain.EnrichResult, error) {
	if len(records) == 0 {
		return domain.EnrichResult{Records: map[string]domain.Record{}}, nil
	}
	if len(records) > maxBulkSize {
		return domain.EnrichResult{}, fmt.Errorf("enrich accepts at most %d records, got %d", maxBulkSize, len(records))
	}

	switch target {
	case domain.TargetPeople:
		return c.enrichPeople(ctx, records)
	case domain.TargetOrganizations:
		return c.enrichOrganizations(ctx, records)
	}
	return domain.EnrichResult{}, fmt.Errorf("%w: cannot enrich %s", domain.ErrInvalidRecord, target)
}

func (c *Client) enrichPeople(ctx context.Context, records []domain.Record) (domain.EnrichResult, error) {
	req := bulkMatchRequest{RevealPersonalEmails: true}
	for _, record := range records {
		req.Details = append(req.Details, bulkMatchDetail{ID: record.ExternalID()})
	}

	var res bulkMatchResponse
	if err := c.doOnce(ctx, http.MethodPost, "/api/v1/people/bulk_match", req, &res); err != nil {
		return domain.EnrichResult{}, classify(err, false, "", "")
	}

	out := domain.EnrichResult{Records: make(map[string]domain.Record, len(res.Matches)), Billable: true}
	for _, match := range res.Matches {
		if match == nil {
			continue
		}
		enriched := match.toDomain()
		out.Records[enriched.ID] = enriched
	}
	out.CreditsUsed = creditsUsed(res.CreditsConsumed, len(out.Records))
	return out, nil
}

func (c *Client) enrichOrganizations(ctx context.Context, records []domain.Record) (domain.EnrichResult, error) {
	idsByDomain := make(map[string][]string, len(records))
	var req bulkEnrichRequest
	for _, record := range records {
		org, ok := record.(domain.Organization)
		if !ok || org.Domain == "" {
			continue
		}
		d := strings.ToLower(org.Domain)
		if _, seen := idsByDomain[d]; !seen {
			req.Domains = append(req.Domains, d)
		}
		idsByDomain[d] = append(idsByDomain[d], org.ID)
	}

	out := domain.EnrichResult{Records: make(map[string]domain.Record, len(records))}
	if len(req.Domains) == 0 {
		return out, nil
	}

	var res bulkEnrichResponse
	if err := c.doOnce(ctx, http.MethodPost, "/api/v1/organizations/bulk_enrich", req, &res); err != nil {
		return domain.EnrichResult{}, classify(err, false, "", "")
	}
	out.Billable = true

	for _, match := range res.Organizations {
		if match == nil {
			continue
		}
		enriched := match.toDomain()
		// keep the identity of the buffered record, the enrichment may carry another id
		for _, id := range idsByDomain[enriched.Domain] {
			withID := enriched
			withID.ID = id
			out.Records[id] = withID
		}
	}
	out.CreditsUsed = creditsUsed(res.CreditsConsumed, len(res.Organizations))
	return out, nil
}

func creditsUsed(reported *int, matched int) int {
	if reported != nil {
		return *reported
	}
	return matched
}
