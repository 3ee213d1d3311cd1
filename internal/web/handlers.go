package web

import (
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/hpungsan/psalter/internal/config"
	"github.com/hpungsan/psalter/internal/corpus"
	"github.com/hpungsan/psalter/internal/errors"
	"github.com/hpungsan/psalter/internal/index"
	"github.com/hpungsan/psalter/internal/normalize"
	"github.com/hpungsan/psalter/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	corpus     *corpus.Corpus
	index      *index.Index
	normalizer normalize.Normalizer
	cfg        *config.Config
	renderer   *Renderer

	// lookupBusy guards the lookup pipeline. Only one lookup may be in
	// flight at a time; a concurrent submit gets a BUSY error instead of
	// queueing behind a slow normalizer call.
	lookupBusy atomic.Bool
}

// HandleLookupForm serves the empty lookup form at GET /lookup.
func (h *Handlers) HandleLookupForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "lookup", LookupPageData{
		PageData: PageData{
			Title:   "Lookup",
			Version: h.renderer.version,
			Nav:     "lookup",
		},
	})
}

// HandleLookup resolves references in the submitted prompt at POST /lookup.
func (h *Handlers) HandleLookup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	prompt := r.FormValue("prompt")
	doNormalize := r.FormValue("normalize") == "on" || r.FormValue("normalize") == "true"

	if !h.lookupBusy.CompareAndSwap(false, true) {
		h.renderer.renderError(w, r, errors.NewBusy())
		return
	}
	defer h.lookupBusy.Store(false)

	result, err := ops.Lookup(r.Context(), h.corpus, h.normalizer, ops.LookupInput{
		Prompt:    prompt,
		Normalize: doNormalize,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "lookup", LookupPageData{
		PageData: PageData{
			Title:   "Lookup",
			Version: h.renderer.version,
			Nav:     "lookup",
		},
		Prompt:    prompt,
		Normalize: doNormalize,
		Result:    result,
		HasResult: true,
	})
}

// HandleSearch runs keyword search over verse text at GET /search.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	data := SearchPageData{
		PageData: PageData{
			Title:   "Search",
			Version: h.renderer.version,
			Nav:     "search",
		},
		Query:    query,
		HasQuery: query != "",
	}

	if query == "" {
		h.renderer.renderPage(w, r, "search", data)
		return
	}

	result, err := ops.Search(r.Context(), h.index, ops.SearchInput{
		Query: query,
		Limit: parseIntParam(r, "limit", ops.DefaultSearchLimit),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	data.Results = result.Results
	data.Count = result.Count
	h.renderer.renderPage(w, r, "search", data)
}

// HandleChapters lists the corpus inventory at GET /chapters.
func (h *Handlers) HandleChapters(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Chapters(h.corpus)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "chapters", ChaptersPageData{
		PageData: PageData{
			Title:   "Chapters",
			Version: h.renderer.version,
			Nav:     "chapters",
		},
		BookTitle: result.Title,
		Chapters:  result.Chapters,
	})
}

// HandleHelp serves usage notes rendered from markdown at GET /help.
func (h *Handlers) HandleHelp(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "help", HelpPageData{
		PageData: PageData{
			Title:   "Help",
			Version: h.renderer.version,
			Nav:     "help",
		},
		RenderedHTML: renderMarkdown(helpMarkdown),
	})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
