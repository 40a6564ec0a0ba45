package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/openjass/aquanet/internal/clock"
	"github.com/openjass/aquanet/internal/report/domain"
	htmlrender "github.com/openjass/aquanet/internal/report/html"
	"github.com/openjass/aquanet/internal/report/layout"
	pdfrender "github.com/openjass/aquanet/internal/report/pdf"
	"github.com/openjass/aquanet/internal/report/scancode"
	"github.com/openjass/aquanet/internal/report/verify"
)

const (
	defaultTitle    = "Reporte de Asignaciones"
	filenamePrefix  = "reporte-asignaciones-"
	codePixelSize   = 256
	summaryMaxRows  = 40
	pdfContentType  = "application/pdf"
	htmlContentType = "text/html; charset=utf-8"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	PDF   *pdfrender.Renderer
	HTML  *htmlrender.Renderer
}

type Service struct {
	log   *zap.Logger
	clock clock.Clock
	pdf   *pdfrender.Renderer
	html  *htmlrender.Renderer
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("report.service"),
		clock: p.Clock,
		pdf:   p.PDF,
		html:  p.HTML,
	}
}

// Generate runs the full report pipeline: filter and lay out the records,
// build the verification token and scannable code, then try the PDF path and
// fall back to HTML. It fails only when both paths are exhausted.
func (s *Service) Generate(ctx context.Context, records []domain.AssignmentRecord, opts domain.Options) (domain.Artifact, error) {
	if opts.BoxCodeFor == nil || opts.UserNameFor == nil {
		return domain.Artifact{}, domain.ErrMissingLookup
	}

	now := s.clock.Now()
	if opts.Title == "" {
		opts.Title = defaultTitle
	}
	if opts.Filename == "" {
		opts.Filename = filenamePrefix + now.Format("2006-01-02") + ".pdf"
	}

	reportID := uuid.NewString()
	log := s.log.With(zap.String("report_id", reportID))

	token := verify.Generate(now, opts.OrgRef)
	model := layout.Build(records, opts, token, nil)

	codePNG := s.encodeCode(log, model, opts.OrgRef, token)

	data, err := s.pdf.Render(ctx, model, codePNG)
	if err == nil {
		log.Info("report generated",
			zap.Int("total", model.Total),
			zap.Int("pages", model.Pages),
			zap.String("filename", opts.Filename),
		)
		return domain.Artifact{
			Filename:    opts.Filename,
			ContentType: pdfContentType,
			Data:        data,
		}, nil
	}
	log.Warn("pdf path failed, trying html fallback", zap.Error(err))

	data, err = s.html.Render(ctx, model, codePNG)
	if err != nil {
		log.Error("all rendering paths exhausted", zap.Error(err))
		return domain.Artifact{}, domain.ErrTotalFailure
	}

	log.Info("report generated in degraded mode",
		zap.Int("total", model.Total),
		zap.String("filename", htmlFilename(opts.Filename)),
	)
	return domain.Artifact{
		Filename:    htmlFilename(opts.Filename),
		ContentType: htmlContentType,
		Data:        data,
		Degraded:    true,
	}, nil
}

// encodeCode tries the rich payload first and retries with the basic one
// when the serialized form exceeds the encoder's ceiling. A nil return means
// the renderers draw a textual placeholder instead.
func (s *Service) encodeCode(log *zap.Logger, model layout.Model, orgRef string, token verify.Token) []byte {
	basic := scancode.NewPayload(s.clock.Now(), orgRef, token.HashPrefix())
	rich := basic.WithEmbeddedDoc(summaryDoc(model))

	png, err := scancode.EncodePNG(rich, codePixelSize)
	if err == nil {
		return png
	}
	if errors.Is(err, scancode.ErrPayloadTooLarge) {
		log.Warn("rich payload over size ceiling, retrying basic")
		if png, err = scancode.EncodePNG(basic, codePixelSize); err == nil {
			return png
		}
	}
	log.Warn("scannable code encoding failed", zap.Error(err))
	return nil
}

// summaryDoc is the compact document embedded in the rich payload: row
// number, box code and user name for the first rows, plus the total.
func summaryDoc(model layout.Model) string {
	n := len(model.Rows)
	if n > summaryMaxRows {
		n = summaryMaxRows
	}
	rows := make([][3]string, 0, n)
	for _, rw := range model.Rows[:n] {
		rows = append(rows, [3]string{rw.Cells[0], rw.Full[1], rw.Full[2]})
	}
	doc, err := json.Marshal(struct {
		Total int         `json:"total"`
		Rows  [][3]string `json:"rows"`
	}{Total: model.Total, Rows: rows})
	if err != nil {
		return ""
	}
	return string(doc)
}

func htmlFilename(pdfName string) string {
	const ext = ".pdf"
	if len(pdfName) > len(ext) && pdfName[len(pdfName)-len(ext):] == ext {
		return pdfName[:len(pdfName)-len(ext)] + ".html"
	}
	return pdfName + ".html"
}
