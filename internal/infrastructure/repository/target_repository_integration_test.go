package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
	"github.com/mohammadpnp/directory-import/internal/infrastructure/db/models"
	"github.com/mohammadpnp/directory-import/internal/infrastructure/repository"
)

func TestPersonTargetPersistIntegration(t *testing.T) {
	db, dsn := openTestDB(t)
	if err := db.Exec("DELETE FROM people").Error; err != nil {
		t.Fatalf("failed cleanup: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("failed to create pgx pool: %v", err)
	}
	defer pool.Close()

	target := repository.NewPersonTarget(pool)
	ctx := context.Background()

	alice := domain.Person{ID: "p-1", FirstName: "Alice", LastName: "Doe", Email: "Alice@Example.com", Title: "CTO"}
	outcome, err := target.Persist(ctx, alice)
	if err != nil {
		t.Fatalf("persist failed: %v", err)
	}
	if outcome != domain.OutcomeInserted {
		t.Fatalf("expected inserted, got %s", outcome)
	}

	outcome, err = target.Persist(ctx, alice)
	if err != nil {
		t.Fatalf("persist duplicate failed: %v", err)
	}
	if outcome != domain.OutcomeDuplicate {
		t.Fatalf("expected duplicate by apollo id, got %s", outcome)
	}

	sameEmail := domain.Person{ID: "p-2", Name: "Alice D.", Email: "alice@example.com"}
	outcome, err = target.Persist(ctx, sameEmail)
	if err != nil {
		t.Fatalf("persist same email failed: %v", err)
	}
	if outcome != domain.OutcomeDuplicate {
		t.Fatalf("expected duplicate by email, got %s", outcome)
	}

	noEmail := []domain.Person{{ID: "p-3", Name: "Bob"}, {ID: "p-4", Name: "Carol"}}
	for _, p := range noEmail {
		outcome, err := target.Persist(ctx, p)
		if err != nil {
			t.Fatalf("persist %s failed: %v", p.ID, err)
		}
		if outcome != domain.OutcomeInserted {
			t.Fatalf("expected people without email to be inserted, got %s", outcome)
		}
	}

	var count int64
	if err := db.Model(&models.Person{}).Count(&count).Error; err != nil {
		t.Fatalf("count people failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 people, got %d", count)
	}

	records, err := repository.NewProspectQueryRepository(db).ListImported(ctx, domain.TargetPeople, 10)
	if err != nil {
		t.Fatalf("list imported people failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 imported people, got %d", len(records))
	}
	for _, record := range records {
		if p := record.(domain.Person); p.ID == "p-1" && (p.Email != "alice@example.com" || p.Title != "CTO") {
			t.Fatalf("unexpected stored person: %+v", p)
		}
	}

	if _, err := target.Persist(ctx, domain.Organization{ID: "o-1", Name: "Acme"}); err == nil {
		t.Fatal("expected organization to be rejected by people target")
	}
}

func TestOrganizationTargetPersistIntegration(t *testing.T) {
	db, dsn := openTestDB(t)
	if err := db.Exec("DELETE FROM organizations").Error; err != nil {
		t.Fatalf("failed cleanup: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("failed to create pgx pool: %v", err)
	}
	defer pool.Close()

	target := repository.NewOrganizationTarget(pool)
	ctx := context.Background()

	outcome, err := target.Persist(ctx, domain.Organization{ID: "o-1", Name: "Acme", Domain: "acme.com", EmployeeCount: 120})
	if err != nil {
		t.Fatalf("persist failed: %v", err)
	}
	if outcome != domain.OutcomeInserted {
		t.Fatalf("expected inserted, got %s", outcome)
	}

	outcome, err = target.Persist(ctx, domain.Organization{ID: "o-2", Name: "Acme Inc", Domain: "ACME.com"})
	if err != nil {
		t.Fatalf("persist same domain failed: %v", err)
	}
	if outcome != domain.OutcomeDuplicate {
		t.Fatalf("expected duplicate by domain, got %s", outcome)
	}

	var row models.Organization
	if err := db.First(&row, "apollo_id = ?", "o-1").Error; err != nil {
		t.Fatalf("load organization failed: %v", err)
	}
	if row.Domain == nil || *row.Domain != "acme.com" || row.EmployeeCount != 120 {
		t.Fatalf("unexpected stored organization: %+v", row)
	}

	records, err := repository.NewProspectQueryRepository(db).ListImported(ctx, domain.TargetOrganizations, 10)
	if err != nil {
		t.Fatalf("list imported organizations failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 imported organization, got %d", len(records))
	}
	if org := records[0].(domain.Organization); org.ID != "o-1" || org.Domain != "acme.com" {
		t.Fatalf("unexpected imported organization: %+v", org)
	}

	if _, err := repository.NewProspectQueryRepository(db).ListImported(ctx, "users", 10); !errors.Is(err, domain.ErrInvalidRecord) {
		t.Fatalf("expected unknown target rejected, got %v", err)
	}
}
