package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"
)

// TemplateRenderer renders HTML templates for page responses.
type TemplateRenderer struct {
	t       *template.Template
	fsys    fs.FS
	devMode bool         // Re-parse templates on each render
	logger  *slog.Logger // For logging template errors
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing templates (required)
	DevMode    bool         // Enable hot reloading of templates
	Logger     *slog.Logger // Logger for template errors (optional)
}

// NewTemplateRenderer constructs a renderer by parsing templates from the provided config.
// Templates are parsed once at startup so a broken template fails fast, also in dev mode.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}

	renderer := &TemplateRenderer{
		fsys:    cfg.TemplateFS,
		devMode: cfg.DevMode,
		logger:  cfg.Logger,
	}

	t, err := renderer.parse()
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Error("template parsing failed",
				slog.Any("error", err),
				slog.String("phase", "initialization"),
			)
		}
		return nil, err
	}
	renderer.t = t
	return renderer, nil
}

func (r *TemplateRenderer) parse() (*template.Template, error) {
	var t *template.Template
	var err error
	t, err = template.New("root").Funcs(templateFuncs(&t)).ParseFS(r.fsys, "*.tmpl", "pages/*.tmpl")
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TemplateRenderer) templates() (*template.Template, error) {
	if !r.devMode {
		return r.t, nil
	}
	return r.parse()
}

// RenderFull renders the full page (layout + page content).
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, data PageData) error {
	return r.renderTemplate(w, "layout", data)
}

// RenderPartial renders only the main content area.
func (r *TemplateRenderer) RenderPartial(w http.ResponseWriter, data PageData) error {
	return r.renderTemplate(w, "content", data)
}

// Render picks the full layout or the fragment based on the request.
func (r *TemplateRenderer) Render(w http.ResponseWriter, req *http.Request, data PageData) error {
	if WantsPartial(req) {
		return r.RenderPartial(w, data)
	}
	return r.RenderFull(w, data)
}

func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, templateName string, data PageData) error {
	t, err := r.templates()
	if err != nil {
		r.logTemplateError(templateName, err)
		return err
	}

	var buf bytes.Buffer
	if err = t.ExecuteTemplate(&buf, templateName, data); err != nil {
		r.logTemplateError(templateName, err)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if data.Status != 0 {
		w.WriteHeader(data.Status)
	}
	if _, err = buf.WriteTo(w); err != nil {
		if r.logger != nil {
			r.logger.Error("failed to write rendered template",
				slog.String("template", templateName),
				slog.Any("error", err),
			)
		}
		return err
	}

	return nil
}

// logTemplateError logs a template execution error with context.
func (r *TemplateRenderer) logTemplateError(templateName string, err error) {
	if r.logger == nil || err == nil {
		return
	}
	r.logger.Error("template execution failed",
		slog.String("template", templateName),
		slog.Any("error", err),
	)
}

func templateFuncs(t **template.Template) template.FuncMap {
	return template.FuncMap{
		"sectionTmpl": ContentTemplateFor,
		"renderSection": func(view string, data any) (template.HTML, error) {
			if t == nil || *t == nil {
				return "", errors.New("template not initialized")
			}
			var buf bytes.Buffer
			if err := (*t).ExecuteTemplate(&buf, ContentTemplateFor(view), data); err != nil {
				return "", err
			}
			// #nosec G203 - rendered by our own html/template set; values were escaped during execution.
			return template.HTML(buf.String()), nil
		},
		"toJSON": func(v any) (string, error) {
			b, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
		"friendlyTime": func(ts time.Time) string {
			if ts.IsZero() {
				return ""
			}
			return ts.Local().Format("Jan 2, 2006 3:04 PM")
		},
	}
}
