// Package layout computes the full report layout model before anything is
// drawn: validity filtering, row numbering, cell formatting and truncation,
// and row-to-page assignment. Renderers consume the model as-is, so the PDF
// and HTML paths always agree on row counts and ordering.
package layout

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/openjass/aquanet/internal/report/domain"
	"github.com/openjass/aquanet/internal/report/verify"
	"github.com/shopspring/decimal"
)

// Page geometry in points (A4 portrait).
const (
	PageWidth    = 595.28
	PageHeight   = 841.89
	MarginX      = 35.0
	MarginTop    = 35.0
	MarginBottom = 45.0
	HeaderHeight = 70.0
	TitleGap     = 14.0
	RowHeight    = 24.0
	FooterHeight = 40.0
	CellPadding  = 4.0
	CellFontSize = 9.0
)

// NumColumns is the fixed column count of the record table.
const NumColumns = 7

// ColumnWidths are the hand-tuned column widths in points (525pt total).
var ColumnWidths = [NumColumns]float64{30, 100, 115, 70, 75, 65, 70}

// ColumnTitles are the table header labels.
var ColumnTitles = [NumColumns]string{"N°", "Código de Caja", "Usuario", "Inicio", "Fin", "Cuota", "Estado"}

// GridColumns is the renderer grid resolution. The column widths divide into
// it without loss, so every grid span keeps its column's exact proportion and
// truncation decisions match the rendered cell widths.
const GridColumns = 105

// GridSpans maps ColumnWidths onto the renderer grid.
var GridSpans = computeGridSpans()

// computeGridSpans distributes GridColumns across the columns in proportion
// to their widths, handing leftover units to the largest remainders.
func computeGridSpans() [NumColumns]int {
	total := TableWidth()

	type leftover struct {
		col  int
		frac float64
	}
	var spans [NumColumns]int
	leftovers := make([]leftover, 0, NumColumns)
	assigned := 0
	for i, w := range ColumnWidths {
		exact := w / total * GridColumns
		spans[i] = int(exact)
		assigned += spans[i]
		leftovers = append(leftovers, leftover{col: i, frac: exact - float64(spans[i])})
	}

	sort.Slice(leftovers, func(a, b int) bool {
		if leftovers[a].frac != leftovers[b].frac {
			return leftovers[a].frac > leftovers[b].frac
		}
		return leftovers[a].col < leftovers[b].col
	})
	for k := 0; assigned < GridColumns; k++ {
		spans[leftovers[k].col]++
		assigned++
	}
	return spans
}

// Ellipsis terminates truncated cell text.
const Ellipsis = "…"

// placeholder renders empty or missing values.
const placeholder = "-"

// MeasureFunc returns the rendered width in points of text at the given font
// size. A nil MeasureFunc falls back to a characters-per-point heuristic.
type MeasureFunc func(text string, fontSize float64) float64

// Row is one laid-out record row.
type Row struct {
	Number   int
	RecordID int64
	Page     int
	Zebra    bool
	// Cells holds truncated text fitted to the column widths.
	Cells [NumColumns]string
	// Full holds the untruncated text for media that can wrap.
	Full [NumColumns]string
}

// Model is the immutable layout of one report.
type Model struct {
	Title       string
	OrgName     string
	OrgAddress  string
	OrgPhone    string
	LogoPath    string
	Currency    string
	GeneratedAt string
	Total       int
	MetaStacked bool
	Rows        []Row
	Pages       int
	Token       verify.Token
}

// Valid reports whether a record may appear on the report: identifier, water
// box and user references present, and both lookups resolving non-empty.
// Invalid records are silently excluded, never rendered, never counted.
func Valid(rec domain.AssignmentRecord, opts domain.Options) bool {
	if rec.ID <= 0 || rec.WaterBoxID <= 0 {
		return false
	}
	if strings.TrimSpace(rec.UserID) == "" {
		return false
	}
	if opts.BoxCodeFor == nil || opts.UserNameFor == nil {
		return false
	}
	if strings.TrimSpace(opts.BoxCodeFor(rec.WaterBoxID)) == "" {
		return false
	}
	if strings.TrimSpace(opts.UserNameFor(rec.UserID)) == "" {
		return false
	}
	return true
}

// FilterValid returns the reportable records in input order.
func FilterValid(records []domain.AssignmentRecord, opts domain.Options) []domain.AssignmentRecord {
	out := make([]domain.AssignmentRecord, 0, len(records))
	for _, rec := range records {
		if Valid(rec, opts) {
			out = append(out, rec)
		}
	}
	return out
}

// FormatStatus maps a raw status to its display label. Accepts English and
// Spanish tokens case-insensitively; unknown non-empty values get their first
// character capitalized; empty renders as the placeholder dash.
func FormatStatus(status string) string {
	trimmed := strings.TrimSpace(status)
	if trimmed == "" {
		return placeholder
	}
	switch strings.ToUpper(trimmed) {
	case "ACTIVE", "ACTIVO":
		return "Activo"
	case "INACTIVE", "INACTIVO":
		return "Inactivo"
	case "SUSPENDED", "SUSPENDIDO":
		return "Suspendido"
	}
	lower := strings.ToLower(trimmed)
	r, size := utf8.DecodeRuneInString(lower)
	if r == utf8.RuneError {
		return trimmed
	}
	return strings.ToUpper(string(r)) + lower[size:]
}

// FormatFee renders a monthly fee as "S/ 45.50". Non-numeric values fall
// back to the raw text; empty renders as the placeholder dash.
func FormatFee(raw, currency string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return placeholder
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return trimmed
	}
	if currency == "" {
		currency = "S/"
	}
	return currency + " " + value.StringFixed(2)
}

// FormatDate renders a date as DD/MM/YYYY, or the placeholder dash when absent.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return placeholder
	}
	return t.Format("02/01/2006")
}

// textWidth estimates rendered width. Without a measurer it assumes an
// average glyph width of roughly half the font size.
func textWidth(text string, fontSize float64, measure MeasureFunc) float64 {
	if measure != nil {
		return measure(text, fontSize)
	}
	return float64(utf8.RuneCountInString(text)) * fontSize * 0.5
}

// Fit truncates text to the usable width of a column, trimming one character
// at a time and appending an ellipsis. If even the ellipsis alone does not
// fit, the ellipsis is returned.
func Fit(text string, columnWidth float64, measure MeasureFunc) string {
	usable := columnWidth - 2*CellPadding
	if textWidth(text, CellFontSize, measure) <= usable {
		return text
	}

	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + Ellipsis
		if textWidth(candidate, CellFontSize, measure) <= usable {
			return candidate
		}
	}
	return Ellipsis
}

// ContentWidth is the horizontal space available to page content.
func ContentWidth() float64 {
	return PageWidth - 2*MarginX
}

// TableWidth is the total width of the record table.
func TableWidth() float64 {
	total := 0.0
	for _, w := range ColumnWidths {
		total += w
	}
	return total
}

// rowsFirstPage and rowsPerPage derive from the fixed band heights: the first
// page loses the header band, title and meta lines; continuation pages only
// repeat the title label and the table header.
func rowsFirstPage(metaStacked bool) int {
	used := MarginTop + HeaderHeight + TitleGap + RowHeight // title line
	used += RowHeight                                       // meta line
	if metaStacked {
		used += RowHeight
	}
	used += RowHeight // table header
	available := PageHeight - MarginBottom - FooterHeight - used
	return int(available / RowHeight)
}

func rowsPerPage() int {
	used := MarginTop + RowHeight + RowHeight // title label + table header
	available := PageHeight - MarginBottom - FooterHeight - used
	return int(available / RowHeight)
}

// Build computes the layout model for the filtered record set. Row numbers
// are a fresh 1-based sequence over valid records only.
func Build(records []domain.AssignmentRecord, opts domain.Options, token verify.Token, measure MeasureFunc) Model {
	valid := FilterValid(records, opts)

	model := Model{
		Title:       strings.ToUpper(strings.TrimSpace(opts.Title)),
		OrgName:     opts.OrgName,
		OrgAddress:  opts.OrgAddress,
		OrgPhone:    opts.OrgPhone,
		LogoPath:    opts.LogoPath,
		Currency:    opts.Currency,
		GeneratedAt: token.DisplayTimestamp,
		Total:       len(valid),
		Token:       token,
	}

	// Meta line: generation date left, total right. When both would collide
	// within the content width they stack on two lines instead.
	metaLeft := "Fecha de generación: " + token.DisplayTimestamp
	metaRight := fmt.Sprintf("Total: %d", len(valid))
	metaWidth := textWidth(metaLeft, CellFontSize, measure) + textWidth(metaRight, CellFontSize, measure)
	model.MetaStacked = metaWidth > ContentWidth()

	firstPageRows := rowsFirstPage(model.MetaStacked)
	laterPageRows := rowsPerPage()
	if firstPageRows < 1 {
		firstPageRows = 1
	}
	if laterPageRows < 1 {
		laterPageRows = 1
	}

	rows := make([]Row, 0, len(valid))
	for i, rec := range valid {
		boxCode := strings.TrimSpace(opts.BoxCodeFor(rec.WaterBoxID))
		userName := strings.TrimSpace(opts.UserNameFor(rec.UserID))

		full := [NumColumns]string{
			fmt.Sprintf("%d", i+1),
			boxCode,
			userName,
			FormatDate(rec.StartDate),
			FormatDate(rec.EndDate),
			FormatFee(rec.MonthlyFee, opts.Currency),
			FormatStatus(rec.Status),
		}

		var cells [NumColumns]string
		for c := range full {
			cells[c] = Fit(full[c], ColumnWidths[c], measure)
		}

		page := 1
		if i >= firstPageRows {
			page = 2 + (i-firstPageRows)/laterPageRows
		}

		rows = append(rows, Row{
			Number:   i + 1,
			RecordID: rec.ID,
			Page:     page,
			Zebra:    i%2 == 1,
			Cells:    cells,
			Full:     full,
		})
	}

	model.Rows = rows
	model.Pages = 1
	if len(rows) > 0 {
		model.Pages = rows[len(rows)-1].Page
	}
	return model
}
