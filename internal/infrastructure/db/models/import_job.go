package models

import "time"

type ImportJob struct {
	ID             string  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	SearchCriteria string  `gorm:"type:text;not null"`
	Status         string  `gorm:"type:text;not null;index"`
	TotalResults   int64   `gorm:"not null;default:0"`
	ImportedCount  int64   `gorm:"not null;default:0"`
	ProcessedCount int64   `gorm:"not null;default:0"`
	FailedCount    int64   `gorm:"not null;default:0"`
	SkippedCount   int64   `gorm:"not null;default:0"`
	CreditsUsed    int64   `gorm:"not null;default:0"`
	ErrorMessage   *string `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ImportJob) TableName() string {
	return "import_jobs"
}
