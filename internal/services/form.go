package services

import (
	"errors"
	"sync"
	"time"

	"spendlog/internal/core"
)

// FormState enumerates the add/edit form lifecycle.
type FormState string

const (
	FormHidden     FormState = "hidden"
	FormAdding     FormState = "adding"
	FormEditing    FormState = "editing"
	FormSubmitting FormState = "submitting"
)

var (
	// ErrSubmitInFlight rejects a re-entrant submit while one is running.
	ErrSubmitInFlight = errors.New("submit already in flight")

	// ErrFormClosed rejects a submit when the form is not open.
	ErrFormClosed = errors.New("form is not open")
)

// FormSession tracks one form instance: Hidden -> Adding|Editing ->
// Submitting -> Hidden on success, or back to the previous state when
// validation fails. A boolean in-flight state, not a lock, guards re-entrant
// submits; every read path stays live while a submit sleeps through its
// simulated save latency.
type FormSession struct {
	mu          sync.Mutex
	state       FormState
	editing     core.Transaction // set only while editing
	submitDelay time.Duration
}

func NewFormSession(submitDelay time.Duration) *FormSession {
	return &FormSession{state: FormHidden, submitDelay: submitDelay}
}

func (f *FormSession) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Editing returns the transaction prefilled into the form while editing.
func (f *FormSession) Editing() (core.Transaction, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FormEditing {
		return core.Transaction{}, false
	}
	return f.editing, true
}

// OpenBlank opens the form for a new transaction.
func (f *FormSession) OpenBlank() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FormSubmitting {
		return
	}
	f.state = FormAdding
	f.editing = core.Transaction{}
}

// OpenEdit opens the form prefilled with the selected transaction.
func (f *FormSession) OpenEdit(tx core.Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FormSubmitting {
		return
	}
	f.state = FormEditing
	f.editing = tx
}

// Cancel returns straight to Hidden, discarding unsaved input. Canceling
// while a submit is in flight is not guarded against; the submit still runs
// to completion.
func (f *FormSession) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FormHidden
	f.editing = core.Transaction{}
}

// Submit runs the save under the Submitting state. The fixed simulated delay
// suspends only this form's submit path. On validation failure the form
// reopens in its previous state with the field errors; on success it hides.
func (f *FormSession) Submit(save func() core.FieldErrors) (core.FieldErrors, error) {
	f.mu.Lock()
	switch f.state {
	case FormSubmitting:
		f.mu.Unlock()
		return nil, ErrSubmitInFlight
	case FormAdding, FormEditing:
	default:
		f.mu.Unlock()
		return nil, ErrFormClosed
	}
	prev := f.state
	f.state = FormSubmitting
	f.mu.Unlock()

	time.Sleep(f.submitDelay) // simulated save latency
	errs := save()

	f.mu.Lock()
	defer f.mu.Unlock()
	if errs.Valid() {
		f.state = FormHidden
		f.editing = core.Transaction{}
	} else {
		f.state = prev
	}
	return errs, nil
}
