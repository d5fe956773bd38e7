package http

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"spendlog/internal/core"
	applog "spendlog/internal/log"
	"spendlog/internal/services"
)

type (
	// chartBar is one rendered bar of the monthly chart; HeightPct scales the
	// tallest bar to full height.
	chartBar struct {
		Label     string
		Total     core.Amount
		HeightPct int64
	}

	formView struct {
		State       services.FormState
		Editing     bool
		ID          string
		Amount      string
		Date        string
		Description string
		Errors      core.FieldErrors
	}

	indexView struct {
		Summary services.Summary
		List    services.ListView
		Chart   []chartBar
		Form    formView
	}
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	view := indexView{
		Summary: s.svc.Summary(),
		List:    s.svc.List(""),
		Chart:   chartBars(s.svc.Chart()),
		Form:    s.currentFormView(),
	}
	s.render(w, r, "index.html", http.StatusOK, view)
}

func (s *Server) handleListPartial(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	term := sanitizeInput(r.URL.Query().Get("q"))
	s.render(w, r, "transaction_list", http.StatusOK, s.svc.List(term))
}

func (s *Server) handleSummaryPartial(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.render(w, r, "summary_cards", http.StatusOK, s.svc.Summary())
}

func (s *Server) handleChartPartial(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.render(w, r, "monthly_chart", http.StatusOK, chartBars(s.svc.Chart()))
}

// handleFormOpen opens the form blank, or prefilled when an id is given.
func (s *Server) handleFormOpen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if id := r.URL.Query().Get("id"); id != "" {
		if tx, ok := s.svc.Find(id); ok {
			s.form.OpenEdit(tx)
		} else {
			s.form.OpenBlank()
		}
	} else {
		s.form.OpenBlank()
	}
	s.render(w, r, "transaction_form", http.StatusOK, s.currentFormView())
}

func (s *Server) handleFormCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.form.Cancel()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	s.handleSubmit(w, r, func(in core.TransactionInput) core.FieldErrors {
		_, errs := s.svc.Add(r.Context(), in)
		return errs
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PostFormValue("id")
	s.handleSubmit(w, r, func(in core.TransactionInput) core.FieldErrors {
		_, errs := s.svc.Update(r.Context(), id, in)
		return errs
	})
}

// handleSubmit runs an add or edit through the form session so the submitting
// state, simulated save latency and re-entrancy guard all apply.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, save func(core.TransactionInput) core.FieldErrors) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error",
			applog.FieldError, err, applog.FieldPath, r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	in := core.TransactionInput{
		Amount:      sanitizeInput(r.Form.Get("amount")),
		Date:        sanitizeInput(r.Form.Get("date")),
		Description: sanitizeInput(r.Form.Get("description")),
	}
	wasEditing := s.form.State() == services.FormEditing
	id := r.Form.Get("id")

	fieldErrs, err := s.form.Submit(func() core.FieldErrors { return save(in) })
	switch {
	case errors.Is(err, services.ErrSubmitInFlight):
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("a save is already in progress"))
		return
	case errors.Is(err, services.ErrFormClosed):
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("the form is not open"))
		return
	}

	if !fieldErrs.Valid() {
		view := formView{
			State:       s.form.State(),
			Editing:     wasEditing,
			ID:          id,
			Amount:      in.Amount,
			Date:        in.Date,
			Description: in.Description,
			Errors:      fieldErrs,
		}
		s.render(w, r, "transaction_form", http.StatusUnprocessableEntity, view)
		return
	}

	// success: clear the form slot and let dependent partials refresh
	w.Header().Set("HX-Trigger", `{"transactions:changed": {}}`)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	id := r.Form.Get("id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.svc.Delete(r.Context(), id)
	w.Header().Set("HX-Trigger", `{"transactions:changed": {}}`)
	w.WriteHeader(http.StatusOK)
}

// currentFormView maps the form session onto template data. A blank form
// defaults its date to today, matching the add flow's expectations.
func (s *Server) currentFormView() formView {
	switch s.form.State() {
	case services.FormEditing:
		tx, _ := s.form.Editing()
		return formView{
			State:       services.FormEditing,
			Editing:     true,
			ID:          tx.ID,
			Amount:      tx.Amount.String(),
			Date:        tx.Date,
			Description: tx.Description,
		}
	case services.FormAdding:
		return formView{
			State: services.FormAdding,
			Date:  time.Now().Format(core.DateLayout),
		}
	default:
		return formView{State: services.FormHidden}
	}
}

// chartBars scales bucket totals so the tallest bar fills the chart area.
func chartBars(series []core.MonthBucket) []chartBar {
	max := decimal.Zero
	for _, b := range series {
		if b.TotalAbs.Decimal.GreaterThan(max) {
			max = b.TotalAbs.Decimal
		}
	}

	bars := make([]chartBar, 0, len(series))
	for _, b := range series {
		pct := int64(0)
		if max.IsPositive() {
			pct = b.TotalAbs.Decimal.Div(max).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		}
		bars = append(bars, chartBar{Label: b.Label, Total: b.TotalAbs, HeightPct: pct})
	}
	return bars
}

// render executes a template into a buffer first so a failure becomes a clean
// 500 instead of a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, status int, data any) {
	if s.templates == nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template render error",
			applog.FieldError, err, "template", name)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
