package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/openjass/aquanet/internal/clock"
	"github.com/openjass/aquanet/internal/report/domain"
	htmlrender "github.com/openjass/aquanet/internal/report/html"
	"github.com/openjass/aquanet/internal/report/layout"
	pdfrender "github.com/openjass/aquanet/internal/report/pdf"
	"github.com/openjass/aquanet/internal/report/verify"
)

func newTestService(t *testing.T) (*Service, *clock.FakeClock) {
	t.Helper()
	log := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC))
	svc := New(Params{
		Log:   log,
		Clock: fake,
		PDF:   pdfrender.NewRenderer(log),
		HTML:  htmlrender.NewRenderer(log),
	})
	return svc.(*Service), fake
}

func testOptions() domain.Options {
	return domain.Options{
		BoxCodeFor:  func(id int64) string { return "CAJA-001" },
		UserNameFor: func(id string) string { return "Juan Pérez" },
		OrgRef:      "42",
		OrgName:     "JASS Principal",
		Currency:    "S/",
	}
}

func testRecords() []domain.AssignmentRecord {
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	return []domain.AssignmentRecord{
		{ID: 1, WaterBoxID: 5, UserID: "u1", StartDate: &start, MonthlyFee: "45.5", Status: "ACTIVE"},
		{ID: 0, WaterBoxID: 5, UserID: "u2"},
		{ID: 3, WaterBoxID: 5, UserID: "u3", StartDate: &start, MonthlyFee: "30", Status: "SUSPENDED"},
	}
}

func TestGenerateRequiresLookups(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Generate(context.Background(), testRecords(), domain.Options{OrgRef: "42"})
	if !errors.Is(err, domain.ErrMissingLookup) {
		t.Fatalf("expected ErrMissingLookup, got %v", err)
	}
}

func TestGenerateProducesPDFWithDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	artifact, err := svc.Generate(context.Background(), testRecords(), testOptions())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if artifact.Degraded {
		t.Fatalf("primary path should not be degraded")
	}
	if artifact.ContentType != "application/pdf" {
		t.Fatalf("unexpected content type %s", artifact.ContentType)
	}
	if artifact.Filename != "reporte-asignaciones-2026-03-14.pdf" {
		t.Fatalf("unexpected default filename %s", artifact.Filename)
	}
	if !bytes.HasPrefix(artifact.Data, []byte("%PDF")) {
		t.Fatalf("expected PDF header bytes")
	}
}

func TestGenerateZeroValidRecords(t *testing.T) {
	svc, _ := newTestService(t)

	artifact, err := svc.Generate(context.Background(), []domain.AssignmentRecord{
		{ID: 0, WaterBoxID: 0, UserID: ""},
	}, testOptions())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(artifact.Data) == 0 {
		t.Fatalf("header-only report must still produce a document")
	}
}

func TestFallbackAgreesWithPrimaryOnTotals(t *testing.T) {
	svc, fake := newTestService(t)

	opts := testOptions()
	opts.Title = "Reporte de Asignaciones"
	token := verify.Generate(fake.Now(), opts.OrgRef)
	model := layout.Build(testRecords(), opts, token, nil)

	if model.Total != 2 {
		t.Fatalf("expected 2 valid records, got %d", model.Total)
	}

	html, err := svc.html.Render(context.Background(), model, nil)
	if err != nil {
		t.Fatalf("render html: %v", err)
	}
	body := string(html)
	if !strings.Contains(body, "Total: 2") {
		t.Fatalf("fallback must carry the same total")
	}
	if !strings.Contains(body, "S/ 45.50") {
		t.Fatalf("fallback must carry the formatted fee")
	}
	if !strings.Contains(body, "Suspendido") {
		t.Fatalf("fallback must carry the localized status")
	}
	if strings.Count(body, "<tr") != 3 {
		t.Fatalf("expected header plus 2 data rows, got %d", strings.Count(body, "<tr"))
	}
}

func TestSummaryDocTruncatesRows(t *testing.T) {
	opts := testOptions()
	records := make([]domain.AssignmentRecord, 0, 60)
	for i := 1; i <= 60; i++ {
		records = append(records, domain.AssignmentRecord{ID: int64(i), WaterBoxID: 5, UserID: "u"})
	}
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	model := layout.Build(records, opts, verify.Generate(now, "42"), nil)

	doc := summaryDoc(model)
	if doc == "" {
		t.Fatalf("expected a summary document")
	}
	if !strings.Contains(doc, `"total":60`) {
		t.Fatalf("summary must carry the full total, got %s", doc)
	}
	if strings.Count(doc, "CAJA-001") != summaryMaxRows {
		t.Fatalf("summary rows must cap at %d", summaryMaxRows)
	}
}

func TestHTMLFilename(t *testing.T) {
	if got := htmlFilename("reporte-asignaciones-2026-03-14.pdf"); got != "reporte-asignaciones-2026-03-14.html" {
		t.Fatalf("unexpected %s", got)
	}
	if got := htmlFilename("reporte"); got != "reporte.html" {
		t.Fatalf("unexpected %s", got)
	}
}
