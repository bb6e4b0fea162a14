package models

import "time"

// Person and Organization describe the import targets. Rows are written by the pgx
// target sinks; the gorm models back reads of the imported rows.
type Person struct {
	ID                 string   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ApolloID           string   `gorm:"size:64;not null;uniqueIndex"`
	FirstName          string   `gorm:"size:120"`
	LastName           string   `gorm:"size:120"`
	FullName           string   `gorm:"size:255;not null"`
	Title              string   `gorm:"size:255"`
	Seniority          string   `gorm:"size:64"`
	Email              *string  `gorm:"size:320;uniqueIndex"`
	EmailStatus        string   `gorm:"size:32"`
	Phone              string   `gorm:"size:32"`
	LinkedInURL        string   `gorm:"column:linkedin_url;size:512"`
	City               string   `gorm:"size:120"`
	State              string   `gorm:"size:120"`
	Country            string   `gorm:"size:120"`
	OrganizationID     string   `gorm:"column:organization_apollo_id;size:64"`
	OrganizationName   string   `gorm:"size:255"`
	OrganizationDomain string   `gorm:"size:255"`
	ContactScore       *float64 `gorm:"type:double precision"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (Person) TableName() string {
	return "people"
}

type Organization struct {
	ID            string  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ApolloID      string  `gorm:"size:64;not null;uniqueIndex"`
	Name          string  `gorm:"size:255;not null"`
	Domain        *string `gorm:"size:255;uniqueIndex"`
	WebsiteURL    string  `gorm:"size:512"`
	LinkedInURL   string  `gorm:"column:linkedin_url;size:512"`
	Industry      string  `gorm:"size:255"`
	EmployeeCount int     `gorm:"not null;default:0"`
	Phone         string  `gorm:"size:32"`
	City          string  `gorm:"size:120"`
	State         string  `gorm:"size:120"`
	Country       string  `gorm:"size:120"`
	FoundedYear   int     `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Organization) TableName() string {
	return "organizations"
}
