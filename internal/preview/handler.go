// Package preview serves application forms over HTTP. Forms round-trip
// through plain POSTs, so the whole flow works without client-side script:
// add and remove buttons edit collections, the submit button runs the
// fail-fast gate and hands valid payloads to the configured channel.
package preview

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-appform/pkg/contract"
	"github.com/goliatone/go-appform/pkg/form"
	"github.com/goliatone/go-appform/pkg/notify"
	"github.com/goliatone/go-appform/pkg/prior"
	"github.com/goliatone/go-appform/pkg/render"
	"github.com/goliatone/go-appform/pkg/renderers/vanilla"
	"github.com/goliatone/go-appform/pkg/validation"
)

const (
	// AddAction names the button that commits a collection draft. Its value
	// is the collection key.
	AddAction = "add"
	// RemoveAction names the button that removes an entry. Its value is
	// "<collection>.<index>".
	RemoveAction = "remove"

	// ShownCategoryField carries the category the page was rendered with, so
	// a POST that changes the selector can drop the old category's values.
	ShownCategoryField = "shown_category"
	// RequestIDField carries the submission request id across round trips.
	RequestIDField = "request_id"
)

// Handler wires the form routes to a registry and a submission channel.
type Handler struct {
	opts     Options
	logger   *slog.Logger
	contract map[contract.Format][]byte
}

// New constructs a handler, building the default renderers and the
// submission contract up front.
func New(fns ...OptionFn) (*Handler, error) {
	opts := NewOptions(fns...)
	if opts.Renderers == nil {
		html, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("preview: %w", err)
		}
		renderers, err := render.NewRegistry(html, render.JSONRenderer{})
		if err != nil {
			return nil, fmt.Errorf("preview: %w", err)
		}
		opts.Renderers = renderers
	}

	doc, err := contract.Build(opts.Registry)
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	h := &Handler{opts: opts, logger: opts.Logger, contract: make(map[contract.Format][]byte, 2)}
	for _, format := range []contract.Format{contract.FormatJSON, contract.FormatYAML} {
		out, err := contract.Marshal(doc, format)
		if err != nil {
			return nil, fmt.Errorf("preview: %w", err)
		}
		h.contract[format] = out
	}
	return h, nil
}

// Register mounts the form endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.HandleForm)
	r.Post("/", h.HandleSubmit)
	r.Get("/categories/{category}", h.HandleCategory)
	r.Get("/accept/{id}", h.HandleAccept)
	r.Get("/assets/{name}", h.HandleAsset)
	r.Get("/contract", h.HandleContract)
}

// Router returns a chi router with the handler registered at its root.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	h.Register(r)
	return r
}

// HandleForm handles GET / with an empty form.
func (h *Handler) HandleForm(w http.ResponseWriter, r *http.Request) {
	ctrl, notes, err := h.controller(prior.Values{})
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	h.respond(w, r, http.StatusOK, ctrl, notes)
}

// HandleCategory handles GET /categories/{category} with the category
// already selected.
func (h *Handler) HandleCategory(w http.ResponseWriter, r *http.Request) {
	ctrl, notes, err := h.controller(prior.Values{})
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	if err := ctrl.SelectCategory(chi.URLParam(r, "category")); err != nil {
		h.fail(w, r, http.StatusNotFound, err)
		return
	}
	h.respond(w, r, http.StatusOK, ctrl, notes)
}

// HandleAccept handles GET /accept/{id}, pre-populating the form from the
// stored application.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	if h.opts.Prior == nil {
		http.NotFound(w, r)
		return
	}
	id := chi.URLParam(r, "id")
	values, err := h.opts.Prior.Load(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, prior.ErrNotFound) {
			status = http.StatusNotFound
		}
		h.fail(w, r, status, err)
		return
	}
	if values.ID == "" {
		values.ID = id
	}
	ctrl, notes, err := h.controller(values)
	if err != nil {
		h.fail(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	h.respond(w, r, http.StatusOK, ctrl, notes)
}

// HandleSubmit handles POST /. The posted form is restored into a fresh
// controller, then the pressed button decides what happens: add a draft,
// remove an entry, or submit. A POST that changes the category only
// switches it and shows the new section.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, http.StatusBadRequest, err)
		return
	}
	posted := decodeForm(h.opts.Registry, r.PostForm)
	ctrl, notes, err := h.controller(posted.values, form.WithRequestID(posted.requestID))
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, err)
		return
	}
	for _, draft := range posted.drafts {
		if _, err := ctrl.SetDraft(draft.collection, draft.component, draft.value); err != nil {
			h.logger.DebugContext(r.Context(), "ignoring posted draft value", "collection", draft.collection, "component", draft.component, "error", err)
		}
	}
	if posted.switched() {
		if err := ctrl.SelectCategory(posted.selected); err != nil {
			h.fail(w, r, http.StatusBadRequest, err)
			return
		}
		h.respond(w, r, http.StatusOK, ctrl, notes)
		return
	}

	status := http.StatusOK
	switch {
	case r.PostForm.Has(AddAction):
		if _, err := ctrl.AddEntry(r.PostForm.Get(AddAction)); err != nil {
			status = statusFor(err)
		}
	case r.PostForm.Has(RemoveAction):
		name, index, ok := splitEntryRef(r.PostForm.Get(RemoveAction))
		if !ok {
			h.fail(w, r, http.StatusBadRequest, fmt.Errorf("preview: malformed entry reference %q", r.PostForm.Get(RemoveAction)))
			return
		}
		if _, err := ctrl.RemoveEntry(name, index); err != nil {
			status = statusFor(err)
		}
	default:
		result, err := ctrl.SubmitAndWait(r.Context())
		if err != nil {
			status = statusFor(err)
			h.logger.InfoContext(r.Context(), "application not submitted",
				"form", h.opts.Registry.Name(),
				"request_id", ctrl.RequestID(),
				"failure", err,
				"transport_error", result.Err,
			)
			break
		}
		h.logger.InfoContext(r.Context(), "application submitted",
			"form", h.opts.Registry.Name(),
			"category", posted.values.Category,
			"accepting", posted.values.ID != "",
		)
	}
	h.respond(w, r, status, ctrl, notes)
}

// HandleAsset serves the built-in stylesheet.
func (h *Handler) HandleAsset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := fs.ReadFile(vanilla.AssetsFS(), name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}

// HandleContract serves the OpenAPI document describing submissions.
// ?format=yaml selects YAML.
func (h *Handler) HandleContract(w http.ResponseWriter, r *http.Request) {
	format := contract.Format(strings.ToLower(r.URL.Query().Get("format")))
	if format == "" {
		format = contract.FormatJSON
	}
	body, ok := h.contract[format]
	if !ok {
		http.Error(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
		return
	}
	contentType := "application/json; charset=utf-8"
	if format == contract.FormatYAML {
		contentType = "application/yaml; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(body)
}

func (h *Handler) controller(values prior.Values, extra ...form.Option) (*form.Controller, *notify.Recorder, error) {
	notes := &notify.Recorder{}
	opts := append([]form.Option{
		form.WithPrior(values),
		form.WithNotifier(notes),
		form.WithChannel(h.opts.Channel),
		form.WithPolicy(h.opts.Policy),
		form.WithLogger(h.logger),
		form.WithHidden(h.opts.Hidden...),
	}, extra...)
	ctrl, err := form.New(h.opts.Registry, opts...)
	if err != nil {
		return nil, nil, err
	}
	return ctrl, notes, nil
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, ctrl *form.Controller, notes *notify.Recorder) {
	renderer, err := h.opts.Renderers.Negotiate(r.Header.Get("Accept"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusNotAcceptable), http.StatusNotAcceptable)
		return
	}
	view := ctrl.View()
	view.Hidden = render.MergeHiddenFields(view.Hidden,
		render.Hidden(ShownCategoryField, ctrl.Category()),
		render.Hidden(RequestIDField, ctrl.RequestID()),
	)
	body, err := renderer.Render(r.Context(), view, render.RenderOptions{
		FormErrors: formMessages(ctrl, notes),
		Theme:      h.opts.Theme,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "render form failed", "renderer", renderer.Name(), "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	h.logger.WarnContext(r.Context(), "form request failed", "path", r.URL.Path, "status", status, "error", err)
	http.Error(w, http.StatusText(status), status)
}

// formMessages returns the error notifications that have no inline home.
// Field failures already show their message next to the field.
func formMessages(ctrl *form.Controller, notes *notify.Recorder) []string {
	if failure := ctrl.Failure(); failure == nil || failure.Kind == validation.KindInvalidField {
		return nil
	}
	var out []string
	for _, note := range notes.Notifications {
		if note.Severity == notify.SeverityError {
			out = append(out, note.Message)
		}
	}
	return out
}

func statusFor(err error) int {
	var failure *validation.Failure
	switch {
	case errors.As(err, &failure) && failure.Kind == validation.KindSubmissionFailed:
		return http.StatusBadGateway
	case errors.As(err, &failure):
		return http.StatusUnprocessableEntity
	case errors.Is(err, form.ErrUnknownCollection):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func splitEntryRef(ref string) (string, int, bool) {
	idx := strings.LastIndex(ref, ".")
	if idx <= 0 {
		return "", 0, false
	}
	index, err := strconv.Atoi(ref[idx+1:])
	if err != nil || index < 0 {
		return "", 0, false
	}
	return ref[:idx], index, true
}
