// Package pdf renders the assignments report with maroto. It consumes the
// precomputed layout model, so filtering, numbering and truncation decisions
// happen before any drawing starts.
package pdf

import (
	"context"
	"os"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"go.uber.org/zap"

	"github.com/openjass/aquanet/internal/report/domain"
	"github.com/openjass/aquanet/internal/report/layout"
)

// Brand palette.
var (
	brandColor  = &props.Color{Red: 21, Green: 101, Blue: 192}
	whiteColor  = &props.Color{Red: 255, Green: 255, Blue: 255}
	zebraColor  = &props.Color{Red: 243, Green: 246, Blue: 250}
	mutedColor  = &props.Color{Red: 110, Green: 110, Blue: 110}
	footerColor = &props.Color{Red: 245, Green: 245, Blue: 245}
)

// The document uses the layout grid, so table spans preserve the exact
// column proportions the truncation pass assumed. Non-table bands use coarse
// spans on the same grid.
const (
	gridFull = layout.GridColumns
	gridLogo = 18
	gridHash = 70
	gridCode = gridFull - gridHash
)

const codeImageSize = 90

// Renderer produces the primary PDF artifact.
type Renderer struct {
	log *zap.Logger
}

func NewRenderer(log *zap.Logger) *Renderer {
	return &Renderer{log: log.Named("report.pdf")}
}

// Render draws the full report and returns the PDF bytes. A failure here
// means the engine itself could not produce a document; individual drawing
// problems (missing logo, unusable code image) degrade in place instead.
func (r *Renderer) Render(ctx context.Context, model layout.Model, codePNG []byte) ([]byte, error) {
	cfg := config.NewBuilder().
		WithMaxGridSize(layout.GridColumns).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
		}).
		WithLeftMargin(12).
		WithRightMargin(12).
		WithTopMargin(12).
		Build()

	m := maroto.New(cfg)

	if err := m.RegisterHeader(r.headerRows(model)...); err != nil {
		return nil, domain.ErrRenderEngineUnavailable
	}
	if err := m.RegisterFooter(r.footerRows()...); err != nil {
		return nil, domain.ErrRenderEngineUnavailable
	}

	// Meta line: generation date left, total right. Stacked variant when the
	// layout decided both would collide.
	if model.MetaStacked {
		m.AddRow(6, text.NewCol(gridFull, "Fecha de generación: "+model.GeneratedAt, props.Text{Size: 9}))
		m.AddRow(6, text.NewCol(gridFull, metaTotal(model), props.Text{Size: 9}))
	} else {
		half := gridFull / 2
		m.AddRow(6,
			text.NewCol(half, "Fecha de generación: "+model.GeneratedAt, props.Text{Size: 9}),
			text.NewCol(gridFull-half, metaTotal(model), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(3, col.New(gridFull))

	r.addTable(m, model)
	r.addVerification(m, model, codePNG)

	doc, err := m.Generate()
	if err != nil {
		r.log.Error("pdf generation failed", zap.Error(err))
		return nil, domain.ErrRenderEngineUnavailable
	}
	return doc.GetBytes(), nil
}

func metaTotal(model layout.Model) string {
	return "Total: " + strconv.Itoa(model.Total)
}

func (r *Renderer) headerRows(model layout.Model) []core.Row {
	brand := row.New(24)

	if model.LogoPath != "" {
		if _, err := os.Stat(model.LogoPath); err == nil {
			brand.Add(image.NewFromFileCol(gridLogo, model.LogoPath, props.Rect{
				Center:  true,
				Percent: 85,
			}))
		} else {
			r.log.Warn("logo not found, skipping", zap.String("path", model.LogoPath), zap.Error(err))
			brand.Add(col.New(gridLogo))
		}
	} else {
		brand.Add(col.New(gridLogo))
	}

	orgCol := col.New(gridFull-gridLogo).Add(
		text.New(model.OrgName, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Color: whiteColor,
			Top:   3,
		}),
		text.New("Sistema de Gestión de Agua Potable", props.Text{
			Size:  8,
			Color: whiteColor,
			Top:   10,
		}),
	)
	if model.OrgAddress != "" || model.OrgPhone != "" {
		orgCol.Add(text.New(contactLine(model), props.Text{
			Size:  7,
			Color: whiteColor,
			Top:   15,
		}))
	}
	brand.Add(orgCol)
	brand.WithStyle(&props.Cell{BackgroundColor: brandColor})

	title := row.New(12).Add(
		text.NewCol(gridFull, model.Title, props.Text{
			Size:  13,
			Style: fontstyle.Bold,
			Align: align.Center,
			Top:   3,
		}),
	)

	return []core.Row{brand, title}
}

func contactLine(model layout.Model) string {
	switch {
	case model.OrgAddress != "" && model.OrgPhone != "":
		return model.OrgAddress + " · Tel. " + model.OrgPhone
	case model.OrgAddress != "":
		return model.OrgAddress
	default:
		return "Tel. " + model.OrgPhone
	}
}

func (r *Renderer) footerRows() []core.Row {
	disclaimer := row.New(12).Add(
		col.New(gridFull).Add(
			text.New("Documento generado automáticamente. Válido sin firma ni sello.", props.Text{
				Size:  7,
				Align: align.Center,
				Color: mutedColor,
				Top:   2,
			}),
			text.New("Verifique la autenticidad con el código al pie del reporte.", props.Text{
				Size:  7,
				Align: align.Center,
				Color: mutedColor,
				Top:   6,
			}),
		),
	)
	disclaimer.WithStyle(&props.Cell{BackgroundColor: footerColor})
	return []core.Row{disclaimer}
}

func (r *Renderer) addTable(m core.Maroto, model layout.Model) {
	header := make([]core.Col, 0, layout.NumColumns)
	for i, title := range layout.ColumnTitles {
		header = append(header, text.NewCol(layout.GridSpans[i], title, props.Text{
			Size:  9,
			Style: fontstyle.Bold,
			Color: whiteColor,
			Top:   1.5,
		}))
	}
	m.AddRow(7, header...).WithStyle(&props.Cell{BackgroundColor: brandColor})

	for _, rw := range model.Rows {
		cols := make([]core.Col, 0, layout.NumColumns)
		for c, cell := range rw.Cells {
			cols = append(cols, text.NewCol(layout.GridSpans[c], cell, props.Text{
				Size: 8.5,
				Top:  1.5,
			}))
		}
		added := m.AddRow(6.5, cols...)
		if rw.Zebra {
			added.WithStyle(&props.Cell{BackgroundColor: zebraColor})
		}
	}
}

// addVerification draws the hash block and the scannable code side by side.
// A nil or unusable code image degrades to a textual pointer, never an error.
func (r *Renderer) addVerification(m core.Maroto, model layout.Model, codePNG []byte) {
	m.AddRow(5, col.New(gridFull))

	left := col.New(gridHash).Add(
		text.New("Código de verificación", props.Text{Size: 8, Style: fontstyle.Bold}),
		text.New(model.Token.Hash, props.Text{Size: 7, Top: 5, Color: mutedColor}),
		text.New("Generado el "+model.GeneratedAt, props.Text{Size: 7, Top: 10, Color: mutedColor}),
	)

	var right core.Col
	if len(codePNG) > 0 {
		right = image.NewFromBytesCol(gridCode, codePNG, extension.Png, props.Rect{
			Center:  true,
			Percent: 75,
		})
	} else {
		r.log.Warn("scannable code unavailable, drawing placeholder")
		right = text.NewCol(gridCode, "Ver versión digital", props.Text{
			Size:  8,
			Align: align.Center,
			Color: mutedColor,
			Top:   8,
		})
	}

	m.AddRow(float64(codeImageSize)/4, left, right)
	m.AddRow(4,
		col.New(gridHash),
		text.NewCol(gridCode, "Escanee para verificar", props.Text{
			Size:  7,
			Align: align.Center,
			Color: mutedColor,
		}),
	)
}
