package app

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
	"time"

	"contract_expiry_notifier/internal/domain/alert"

	"github.com/Masterminds/sprig/v3"
)

// defaultBodyTemplate shows the expiry the way the sheet owners read dates.
const defaultBodyTemplate = `{{ .Kind.Headline }}

Status:    {{ .Status | default "(none)" }}
Address:   {{ .Address | default "(none)" }}
Expires:   {{ dateInZone "02/01/2006" .Expiry "UTC" }}
Sheet row: {{ .RowNumber }}
`

// BodyParams is the data available to alert body templates.
type BodyParams struct {
	Kind      alert.Kind
	Status    string
	Address   string
	Expiry    time.Time // midnight UTC of the expiry date
	RowNumber int
	Sheet     string
}

// BodyRenderer renders alert bodies from a text template with sprig functions.
type BodyRenderer struct {
	tmpl *template.Template
}

func NewBodyRenderer(text string) (*BodyRenderer, error) {
	if text == "" {
		text = defaultBodyTemplate
	}
	tmpl, err := template.New("alert-body").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse alert body template: %w", err)
	}
	return &BodyRenderer{tmpl: tmpl}, nil
}

// NewBodyRendererFromFile loads the template at path, or the default template
// when path is empty.
func NewBodyRendererFromFile(path string) (*BodyRenderer, error) {
	if path == "" {
		return NewBodyRenderer("")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alert body template %s: %w", path, err)
	}
	return NewBodyRenderer(string(raw))
}

func (r *BodyRenderer) Render(p BodyParams) (string, error) {
	var b bytes.Buffer
	if err := r.tmpl.Execute(&b, p); err != nil {
		return "", fmt.Errorf("failed to render alert body: %w", err)
	}
	return b.String(), nil
}
