package repositories

import (
	"time"
)

// ===== SHARED FILTER STRUCTS =====

type SubmissionFilters struct {
	Class      string     `json:"class"`
	RollNumber string     `json:"roll_number"`
	DateFrom   *time.Time `json:"date_from"`
	DateTo     *time.Time `json:"date_to"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
	SortBy     string     `json:"sort_by"`    // "submitted_at", "total", "roll_number"
	SortOrder  string     `json:"sort_order"` // "asc", "desc"
}
