package domain

import (
	"context"
	"errors"
	"time"
)

// AssignmentRecord is one input row for the assignments report. Records are
// supplied wholesale by the caller and never mutated.
type AssignmentRecord struct {
	ID         int64
	WaterBoxID int64
	UserID     string
	StartDate  *time.Time
	EndDate    *time.Time
	MonthlyFee string
	Status     string
}

// Options configures one report generation. BoxCodeFor and UserNameFor are
// required; a record whose lookups resolve empty is excluded from the report.
type Options struct {
	BoxCodeFor  func(waterBoxID int64) string
	UserNameFor func(userID string) string

	OrgRef     string
	OrgName    string
	OrgAddress string
	OrgPhone   string
	LogoPath   string
	Currency   string
	Title      string
	Filename   string
}

// Artifact is the generated report, ready to be saved or served.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	Degraded    bool
}

type Service interface {
	Generate(ctx context.Context, records []AssignmentRecord, opts Options) (Artifact, error)
}

var (
	// ErrRenderEngineUnavailable means the primary PDF path failed and the
	// caller fell through to the HTML fallback.
	ErrRenderEngineUnavailable = errors.New("render_engine_unavailable")
	// ErrResourceFetchFailed marks a missing logo or asset; it degrades, never aborts.
	ErrResourceFetchFailed = errors.New("resource_fetch_failed")
	// ErrConversionUnavailable marks a fallback conversion path that could not run.
	ErrConversionUnavailable = errors.New("conversion_unavailable")
	// ErrTotalFailure means every rendering path was exhausted.
	ErrTotalFailure = errors.New("report_generation_failed")
	// ErrMissingLookup means a required lookup function was not supplied.
	ErrMissingLookup = errors.New("missing_lookup")
)
