// Package html renders the degraded-mode report. It mirrors the PDF layout
// (header, title, meta, table, verification, footer) but shows full cell text
// since the medium can wrap, and embeds the scannable code as a data URI.
package html

import (
	"bytes"
	"context"
	"encoding/base64"
	"html/template"
	"os"

	"go.uber.org/zap"

	"github.com/openjass/aquanet/internal/report/domain"
	"github.com/openjass/aquanet/internal/report/layout"
)

const reportHTMLTemplate = `<!doctype html>
<html lang="es">
<head>
  <meta charset="utf-8" />
  <title>{{.Model.Title}}</title>
  <style>
    :root {
      --brand: #1565c0;
      --font: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 32px;
      font-family: var(--font);
      color: #1a1f36;
      background: #f7f9fc;
    }
    .report-card {
      background: #ffffff;
      max-width: 860px;
      margin: 0 auto;
      padding: 0 0 32px 0;
      box-shadow: 0 2px 5px rgba(0,0,0,0.04);
      border-radius: 4px;
      overflow: hidden;
    }
    .brand-band {
      background: var(--brand);
      color: #ffffff;
      display: flex;
      align-items: center;
      padding: 18px 28px;
    }
    .brand-band img {
      max-height: 48px;
      background: #ffffff;
      padding: 4px;
      border-radius: 4px;
      margin-right: 18px;
    }
    .brand-band h1 { margin: 0; font-size: 20px; }
    .brand-band .subtitle { font-size: 12px; opacity: 0.85; }
    .brand-band .contact { font-size: 11px; opacity: 0.75; margin-top: 2px; }
    h2.title {
      text-align: center;
      font-size: 17px;
      margin: 24px 0 8px 0;
      text-transform: uppercase;
    }
    .meta {
      display: flex;
      justify-content: space-between;
      padding: 0 28px;
      font-size: 13px;
      color: #697386;
      margin-bottom: 16px;
    }
    table {
      width: calc(100% - 56px);
      margin: 0 28px 24px 28px;
      border-collapse: collapse;
    }
    th {
      background: var(--brand);
      color: #ffffff;
      text-align: left;
      font-size: 12px;
      padding: 8px 6px;
    }
    td {
      padding: 8px 6px;
      border-bottom: 1px solid #e3e8ee;
      font-size: 13px;
      vertical-align: top;
    }
    tr.zebra td { background: #f3f6fa; }
    .verify {
      display: flex;
      justify-content: space-between;
      align-items: flex-start;
      padding: 0 28px;
      margin-bottom: 24px;
    }
    .verify .hash {
      font-family: monospace;
      font-size: 11px;
      color: #697386;
      word-break: break-all;
      max-width: 520px;
    }
    .verify .label { font-weight: 600; font-size: 13px; margin-bottom: 4px; }
    .verify img { width: 120px; height: 120px; }
    .verify .caption { font-size: 11px; color: #697386; text-align: center; margin-top: 4px; }
    .footer {
      border-top: 1px solid #e3e8ee;
      padding: 16px 28px 0 28px;
      font-size: 11px;
      color: #8792a2;
      text-align: center;
    }
    @media print {
      body { background: #ffffff; padding: 0; }
      .report-card { box-shadow: none; max-width: none; }
    }
  </style>
</head>
<body>
  <div class="report-card">
    <div class="brand-band">
      {{if .LogoURI}}<img src="{{.LogoURI}}" alt="{{.Model.OrgName}}">{{end}}
      <div>
        <h1>{{.Model.OrgName}}</h1>
        <div class="subtitle">Sistema de Gestión de Agua Potable</div>
        {{if .Contact}}<div class="contact">{{.Contact}}</div>{{end}}
      </div>
    </div>

    <h2 class="title">{{.Model.Title}}</h2>

    <div class="meta">
      <span>Fecha de generación: {{.Model.GeneratedAt}}</span>
      <span>Total: {{.Model.Total}}</span>
    </div>

    <table>
      <thead>
        <tr>
          {{range .Titles}}<th>{{.}}</th>{{end}}
        </tr>
      </thead>
      <tbody>
        {{range .Model.Rows}}
        <tr{{if .Zebra}} class="zebra"{{end}}>
          {{range .Full}}<td>{{.}}</td>{{end}}
        </tr>
        {{end}}
      </tbody>
    </table>

    <div class="verify">
      <div>
        <div class="label">Código de verificación</div>
        <div class="hash">{{.Model.Token.Hash}}</div>
        <div class="hash">Generado el {{.Model.GeneratedAt}}</div>
      </div>
      {{if .CodeURI}}
      <div>
        <img src="{{.CodeURI}}" alt="Código de verificación">
        <div class="caption">Escanee para verificar</div>
      </div>
      {{else}}
      <div class="caption">Ver versión digital</div>
      {{end}}
    </div>

    <div class="footer">
      Documento generado automáticamente. Válido sin firma ni sello.<br>
      Verifique la autenticidad con el código al pie del reporte.
    </div>
  </div>
</body>
</html>
`

type templateData struct {
	Model   layout.Model
	Titles  []string
	Contact string
	LogoURI template.URL
	CodeURI template.URL
}

// Renderer produces the HTML fallback artifact.
type Renderer struct {
	tpl *template.Template
	log *zap.Logger
}

func NewRenderer(log *zap.Logger) *Renderer {
	return &Renderer{
		tpl: template.Must(template.New("report").Parse(reportHTMLTemplate)),
		log: log.Named("report.html"),
	}
}

// Render builds the full document from the same layout model the PDF path
// uses, so totals and row ordering always agree between both outputs.
func (r *Renderer) Render(ctx context.Context, model layout.Model, codePNG []byte) ([]byte, error) {
	data := templateData{
		Model:   model,
		Titles:  layout.ColumnTitles[:],
		Contact: contactLine(model),
	}
	if model.LogoPath != "" {
		if raw, err := os.ReadFile(model.LogoPath); err == nil {
			data.LogoURI = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(raw))
		} else {
			r.log.Warn("logo not found, skipping", zap.String("path", model.LogoPath), zap.Error(err))
		}
	}
	if len(codePNG) > 0 {
		data.CodeURI = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(codePNG))
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, data); err != nil {
		r.log.Error("html rendering failed", zap.Error(err))
		return nil, domain.ErrConversionUnavailable
	}
	return buf.Bytes(), nil
}

func contactLine(model layout.Model) string {
	switch {
	case model.OrgAddress != "" && model.OrgPhone != "":
		return model.OrgAddress + " · Tel. " + model.OrgPhone
	case model.OrgAddress != "":
		return model.OrgAddress
	default:
		if model.OrgPhone == "" {
			return ""
		}
		return "Tel. " + model.OrgPhone
	}
}
