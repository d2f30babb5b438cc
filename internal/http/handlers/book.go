package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/wolfman30/sitefront/internal/calendly"
	siteembed "github.com/wolfman30/sitefront/internal/embed"
	"github.com/wolfman30/sitefront/internal/whatsapp"
	"github.com/wolfman30/sitefront/pkg/logging"
)

//go:embed pages/*.html.tmpl
var pageFS embed.FS

var bookPage = template.Must(template.New("book.html.tmpl").ParseFS(pageFS, "pages/book.html.tmpl"))

// InlineWidget is one Calendly inline embed on the booking page.
type InlineWidget struct {
	Config    calendly.Config
	MinHeight string
}

// BookPageConfig describes the booking page.
type BookPageConfig struct {
	Title       string
	CompanyName string
	Widgets     []InlineWidget
	// WhatsApp is omitted when PhoneNumber is empty.
	WhatsApp whatsapp.ButtonConfig
}

type renderedWidget struct {
	URL       string
	MinHeight string
}

type bookView struct {
	Title       string
	CompanyName string
	HeadTags    template.HTML
	Widgets     []renderedWidget
	WhatsApp    *whatsappView
}

type whatsappView struct {
	whatsapp.ButtonConfig
	Style template.CSS
}

// BookHandler renders GET /book with inline scheduling widgets and the
// WhatsApp chat button.
type BookHandler struct {
	service *calendly.Service
	cfg     BookPageConfig
	logger  *logging.Logger
}

func NewBookHandler(service *calendly.Service, cfg BookPageConfig, logger *logging.Logger) *BookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if len(cfg.Widgets) == 0 {
		cfg.Widgets = []InlineWidget{{}}
	}
	return &BookHandler{service: service, cfg: cfg, logger: logger}
}

func (h *BookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	doc := siteembed.NewDocument()
	view := bookView{Title: h.cfg.Title, CompanyName: h.cfg.CompanyName}

	if h.service.IsConfigured() {
		for _, widget := range h.cfg.Widgets {
			url, err := h.service.SchedulingURL(&widget.Config)
			if err != nil {
				h.logger.Error("book page: scheduling url", "error", err)
				http.Error(w, "failed to build scheduling link", http.StatusInternalServerError)
				return
			}
			// Each widget holds the widget assets for the duration of the render.
			handle := doc.Load(calendly.Widget()...)
			defer handle.Release()
			minHeight := widget.MinHeight
			if minHeight == "" {
				minHeight = "700px"
			}
			view.Widgets = append(view.Widgets, renderedWidget{URL: url, MinHeight: minHeight})
		}
	}
	if h.cfg.WhatsApp.PhoneNumber != "" {
		btn := h.cfg.WhatsApp.WithDefaults()
		view.WhatsApp = &whatsappView{
			ButtonConfig: btn,
			Style:        template.CSS(fmt.Sprintf("%s;width:%dpx;height:%dpx;background:%s", btn.Offsets(), btn.Diameter(), btn.Diameter(), btn.Color)),
		}
	}
	view.HeadTags = doc.Tags()

	var buf bytes.Buffer
	if err := bookPage.Execute(&buf, view); err != nil {
		h.logger.Error("book page: render", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
