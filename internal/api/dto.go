package api

import (
	"time"

	"github.com/starford/kitscan/internal/models"
)

// ComponentsResponse wraps the descriptors of one category.
type ComponentsResponse struct {
	Category   string `json:"category" example:"commands" validate:"required"`
	Components any    `json:"components" validate:"required"`
}

// ScenariosResponse wraps generated scenarios.
type ScenariosResponse struct {
	Scenarios []models.Scenario `json:"scenarios" validate:"required"`
}

// ScanRecord is one recorded scan in a history response.
type ScanRecord struct {
	ID         int64     `json:"id" example:"7"`
	Categories []string  `json:"categories"`
	Total      int       `json:"total" example:"42"`
	Added      int       `json:"added"`
	Updated    int       `json:"updated"`
	Removed    int       `json:"removed"`
	RecordedAt time.Time `json:"recorded_at"`
}

// HistoryResponse wraps recorded scans, newest first.
type HistoryResponse struct {
	Scans []ScanRecord `json:"scans" validate:"required"`
}
