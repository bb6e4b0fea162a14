package repository

import (
	"context"
	"fmt"

	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
	"github.com/mohammadpnp/directory-import/internal/infrastructure/db/models"
	"gorm.io/gorm"
)

// ProspectQueryRepository reads back the people and organizations written by the
// import targets, newest first.
type ProspectQueryRepository struct {
	db *gorm.DB
}

func NewProspectQueryRepository(db *gorm.DB) *ProspectQueryRepository {
	return &ProspectQueryRepository{db: db}
}

func (r *ProspectQueryRepository) ListImported(ctx context.Context, target domain.TargetType, limit int) ([]domain.Record, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC, apollo_id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	switch target {
	case domain.TargetPeople:
		var rows []models.Person
		if err := query.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("list imported people: %w", err)
		}
		out := make([]domain.Record, 0, len(rows))
		for _, row := range rows {
			out = append(out, toDomainPerson(row))
		}
		return out, nil
	case domain.TargetOrganizations:
		var rows []models.Organization
		if err := query.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("list imported organizations: %w", err)
		}
		out := make([]domain.Record, 0, len(rows))
		for _, row := range rows {
			out = append(out, toDomainOrganization(row))
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: unknown target %q", domain.ErrInvalidRecord, target)
}

func toDomainPerson(row models.Person) domain.Person {
	return domain.Person{
		ID:                 row.ApolloID,
		FirstName:          row.FirstName,
		LastName:           row.LastName,
		Name:               row.FullName,
		Title:              row.Title,
		Seniority:          row.Seniority,
		Email:              derefString(row.Email),
		EmailStatus:        row.EmailStatus,
		Phone:              row.Phone,
		LinkedInURL:        row.LinkedInURL,
		City:               row.City,
		State:              row.State,
		Country:            row.Country,
		OrganizationID:     row.OrganizationID,
		OrganizationName:   row.OrganizationName,
		OrganizationDomain: row.OrganizationDomain,
		ContactScore:       row.ContactScore,
	}
}

func toDomainOrganization(row models.Organization) domain.Organization {
	return domain.Organization{
		ID:            row.ApolloID,
		Name:          row.Name,
		Domain:        derefString(row.Domain),
		WebsiteURL:    row.WebsiteURL,
		LinkedInURL:   row.LinkedInURL,
		Industry:      row.Industry,
		EmployeeCount: row.EmployeeCount,
		Phone:         row.Phone,
		City:          row.City,
		State:         row.State,
		Country:       row.Country,
		FoundedYear:   row.FoundedYear,
	}
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
