package layout

import (
	"strings"
	"testing"
	"time"

	"github.com/openjass/aquanet/internal/report/domain"
	"github.com/openjass/aquanet/internal/report/verify"
)

func testOptions() domain.Options {
	return domain.Options{
		BoxCodeFor: func(id int64) string {
			if id == 99 {
				return ""
			}
			return "CAJA-001"
		},
		UserNameFor: func(id string) string {
			if id == "ghost" {
				return ""
			}
			return "Juan Pérez"
		},
		OrgRef:   "42",
		OrgName:  "JASS Principal",
		Currency: "S/",
		Title:    "Reporte de Asignaciones",
	}
}

func buildModel(t *testing.T, records []domain.AssignmentRecord) Model {
	t.Helper()
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	token := verify.Generate(now, "42")
	return Build(records, testOptions(), token, nil)
}

func TestFilterValidExcludesBrokenRecords(t *testing.T) {
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	records := []domain.AssignmentRecord{
		{ID: 1, WaterBoxID: 5, UserID: "u1", StartDate: &start, MonthlyFee: "45.5", Status: "ACTIVE"},
		{ID: 0, WaterBoxID: 5, UserID: "u2"},
		{ID: 3, WaterBoxID: 0, UserID: "u3"},
		{ID: 4, WaterBoxID: 5, UserID: ""},
		{ID: 5, WaterBoxID: 99, UserID: "u5"},
		{ID: 6, WaterBoxID: 5, UserID: "ghost"},
		{ID: 7, WaterBoxID: 5, UserID: "u7", Status: "SUSPENDED"},
	}

	valid := FilterValid(records, testOptions())
	if len(valid) != 2 {
		t.Fatalf("expected 2 valid records, got %d", len(valid))
	}
	if valid[0].ID != 1 || valid[1].ID != 7 {
		t.Fatalf("expected input order preserved, got %d then %d", valid[0].ID, valid[1].ID)
	}

	// Filtering an already-filtered set changes nothing.
	again := FilterValid(valid, testOptions())
	if len(again) != len(valid) {
		t.Fatalf("filtering must be idempotent")
	}
}

func TestBuildNumbersRowsFreshly(t *testing.T) {
	records := []domain.AssignmentRecord{
		{ID: 10, WaterBoxID: 5, UserID: "u1"},
		{ID: 0, WaterBoxID: 5, UserID: "broken"},
		{ID: 30, WaterBoxID: 5, UserID: "u3"},
	}

	model := buildModel(t, records)
	if model.Total != 2 {
		t.Fatalf("expected total 2, got %d", model.Total)
	}
	for i, row := range model.Rows {
		if row.Number != i+1 {
			t.Fatalf("row %d numbered %d", i, row.Number)
		}
		if row.Cells[0] != row.Full[0] {
			t.Fatalf("sequence cell must never truncate")
		}
	}
	if model.Rows[1].RecordID != 30 {
		t.Fatalf("second row should carry record 30, got %d", model.Rows[1].RecordID)
	}
}

func TestBuildZeroValidRecords(t *testing.T) {
	model := buildModel(t, []domain.AssignmentRecord{
		{ID: 0, WaterBoxID: 0, UserID: ""},
	})

	if model.Total != 0 {
		t.Fatalf("expected total 0, got %d", model.Total)
	}
	if len(model.Rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(model.Rows))
	}
	if model.Pages != 1 {
		t.Fatalf("header-only report is still one page, got %d", model.Pages)
	}
}

func TestGridSpansPreserveColumnProportions(t *testing.T) {
	// 525pt of columns over a 105-unit grid: every span is its width divided
	// by the 5pt grid unit, so rendered cells match the truncation widths.
	want := [NumColumns]int{6, 20, 23, 14, 15, 13, 14}
	if GridSpans != want {
		t.Fatalf("grid spans %v, want %v", GridSpans, want)
	}

	sum := 0
	for _, span := range GridSpans {
		sum += span
	}
	if sum != GridColumns {
		t.Fatalf("spans sum to %d, want %d", sum, GridColumns)
	}
}

func TestFitTruncation(t *testing.T) {
	long := strings.Repeat("a", 100)

	fitted := Fit(long, ColumnWidths[2], nil)
	if fitted == long {
		t.Fatalf("expected truncation for a 100-char string")
	}
	if !strings.HasSuffix(fitted, Ellipsis) {
		t.Fatalf("truncated text must end with the ellipsis, got %q", fitted)
	}
	if len([]rune(fitted)) >= len([]rune(long)) {
		t.Fatalf("truncated text must be strictly shorter")
	}

	short := "ok"
	if got := Fit(short, ColumnWidths[2], nil); got != short {
		t.Fatalf("short text must pass through unchanged, got %q", got)
	}
}

func TestFitHonorsMeasureFunc(t *testing.T) {
	// A measurer that reports everything as oversized forces the bare ellipsis.
	wide := func(text string, fontSize float64) float64 { return 10000 }

	if got := Fit("anything", ColumnWidths[1], wide); got != Ellipsis {
		t.Fatalf("expected bare ellipsis, got %q", got)
	}

	narrow := func(text string, fontSize float64) float64 { return 1 }
	if got := Fit("anything", ColumnWidths[1], narrow); got != "anything" {
		t.Fatalf("expected passthrough with narrow measurer, got %q", got)
	}
}

func TestFormatStatus(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ACTIVE", "Activo"},
		{"active", "Activo"},
		{"Activo", "Activo"},
		{"INACTIVE", "Inactivo"},
		{"inactivo", "Inactivo"},
		{"SUSPENDED", "Suspendido"},
		{"suspendido", "Suspendido"},
		{"pending", "Pending"},
		{"WEIRD_STATE", "Weird_state"},
		{"", "-"},
		{"   ", "-"},
	}
	for _, tc := range cases {
		if got := FormatStatus(tc.in); got != tc.want {
			t.Fatalf("FormatStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatFee(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"45.5", "S/ 45.50"},
		{"45.50", "S/ 45.50"},
		{"0", "S/ 0.00"},
		{"12", "S/ 12.00"},
		{"not-a-number", "not-a-number"},
		{"", "-"},
	}
	for _, tc := range cases {
		if got := FormatFee(tc.in, "S/"); got != tc.want {
			t.Fatalf("FormatFee(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(nil); got != "-" {
		t.Fatalf("nil date should render as dash, got %q", got)
	}
	d := time.Date(2025, 1, 9, 10, 30, 0, 0, time.UTC)
	if got := FormatDate(&d); got != "09/01/2025" {
		t.Fatalf("expected 09/01/2025, got %q", got)
	}
}

func TestBuildPaginatesLongReports(t *testing.T) {
	records := make([]domain.AssignmentRecord, 0, 80)
	for i := 1; i <= 80; i++ {
		records = append(records, domain.AssignmentRecord{
			ID:         int64(i),
			WaterBoxID: 5,
			UserID:     "u1",
			Status:     "ACTIVE",
		})
	}

	model := buildModel(t, records)
	if model.Pages < 2 {
		t.Fatalf("80 rows should spill onto a second page, got %d pages", model.Pages)
	}
	last := 0
	for _, row := range model.Rows {
		if row.Page < last {
			t.Fatalf("page numbers must be non-decreasing")
		}
		last = row.Page
	}
	if model.Rows[0].Page != 1 {
		t.Fatalf("first row belongs on page 1")
	}
}

func TestBuildZebraAlternates(t *testing.T) {
	records := []domain.AssignmentRecord{
		{ID: 1, WaterBoxID: 5, UserID: "u1"},
		{ID: 2, WaterBoxID: 5, UserID: "u2"},
		{ID: 3, WaterBoxID: 5, UserID: "u3"},
	}

	model := buildModel(t, records)
	if model.Rows[0].Zebra || !model.Rows[1].Zebra || model.Rows[2].Zebra {
		t.Fatalf("zebra fill must alternate starting on the second row")
	}
}
