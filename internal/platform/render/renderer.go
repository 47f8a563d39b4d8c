package render

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	htmlengine "github.com/gofiber/template/html/v2"
	"github.com/jung-kurt/gofpdf"

	"payslips/internal/domain/payroll"
)

//go:embed templates/*.html
var templates embed.FS

const templateName = "payslip"

var (
	ErrTemplate = errors.New("payslip template")
	ErrPDF      = errors.New("payslip pdf")
)

var (
	indentRe = regexp.MustCompile(`\r?\n[ \t]*`)
	tagRe    = regexp.MustCompile(`<[^>]*>`)
)

// Renderer turns a payslip context into a PDF document.
type Renderer struct {
	engine *htmlengine.Engine
}

// New loads the payslip template from dir, or the built-in one when dir is
// empty. The directory must contain payslip.html.
func New(dir string) (*Renderer, error) {
	var engine *htmlengine.Engine
	if dir == "" {
		sub, err := fs.Sub(templates, "templates")
		if err != nil {
			return nil, err
		}
		engine = htmlengine.NewFileSystem(http.FS(sub), ".html")
	} else {
		if _, err := os.Stat(filepath.Join(dir, templateName+".html")); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
		}
		engine = htmlengine.New(dir, ".html")
	}
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return &Renderer{engine: engine}, nil
}

// Markup fills the template for one employee.
func (r *Renderer) Markup(pc payroll.Context) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Render(&buf, templateName, pc.Fields()); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return buf.String(), nil
}

// Render produces the PDF bytes for one employee.
func (r *Renderer) Render(ctx context.Context, pc payroll.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	markup, err := r.Markup(pc)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+pc.Month, true)
	pdf.SetAuthor("HR Team", true)
	pdf.AddPage()

	if pc.LogoPath != "" {
		if _, err := os.Stat(pc.LogoPath); err == nil {
			pdf.ImageOptions(pc.LogoPath, 10, 8, 30, 0, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
			pdf.SetY(28)
		}
	}

	pdf.SetFont("Courier", "", 9)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	writer := pdf.HTMLBasicNew()
	writer.Write(4.5, flatten(markup, tr))

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDF, err)
	}
	return out.Bytes(), nil
}

// flatten drops template line breaks, decodes entities left by escaping and
// maps text to the core font encoding. Angle brackets in field values would
// be read as tags, so they are removed.
func flatten(markup string, tr func(string) string) string {
	markup = indentRe.ReplaceAllString(markup, "")

	var b strings.Builder
	pos := 0
	for _, loc := range tagRe.FindAllStringIndex(markup, -1) {
		b.WriteString(text(markup[pos:loc[0]], tr))
		b.WriteString(markup[loc[0]:loc[1]])
		pos = loc[1]
	}
	b.WriteString(text(markup[pos:], tr))
	return b.String()
}

func text(s string, tr func(string) string) string {
	s = html.UnescapeString(s)
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	return tr(s)
}
