package core

import (
	"strings"
	"time"
)

const (
	// DateLayout is the calendar-date wire format for Transaction.Date.
	DateLayout = "2006-01-02"

	// MinDescriptionLen is the minimum trimmed description length.
	MinDescriptionLen = 3
)

type (
	// Transaction is one recorded expense. ID and CreatedAt are assigned at
	// creation time and never change afterwards; edits replace every other
	// field in place.
	Transaction struct {
		ID          string `json:"id"`
		Amount      Amount `json:"amount"`
		Date        string `json:"date"` // YYYY-MM-DD, no time component
		Description string `json:"description"`
		CreatedAt   string `json:"createdAt"` // ISO-8601, audit display only
	}

	// TransactionInput carries the raw form fields of a candidate transaction
	// before validation and coercion.
	TransactionInput struct {
		Amount      string
		Date        string
		Description string
	}

	// FieldErrors maps an input field name to one validation message.
	FieldErrors map[string]string
)

// Valid reports whether no field rule was violated.
func (e FieldErrors) Valid() bool { return len(e) == 0 }

// MonthKey returns the fixed-width "YYYY-MM" group key of the transaction date.
func (t Transaction) MonthKey() string {
	if len(t.Date) < 7 {
		return t.Date
	}
	return t.Date[:7]
}

// ValidateInput checks a candidate transaction against all field rules.
// Every rule is evaluated independently; violations are collected per field,
// never short-circuited, so the caller can render each message next to its
// input.
func ValidateInput(in TransactionInput, now time.Time) FieldErrors {
	errs := FieldErrors{}

	amount := strings.TrimSpace(in.Amount)
	if amount == "" {
		errs["amount"] = "Amount is required"
	} else if a, err := AmountFromString(amount); err != nil || a.IsZero() {
		errs["amount"] = "Amount must be a valid number"
	}

	date := strings.TrimSpace(in.Date)
	if date == "" {
		errs["date"] = "Date is required"
	} else if d, err := time.Parse(DateLayout, date); err != nil {
		errs["date"] = "Date must be a valid date"
	} else if d.After(today(now)) {
		errs["date"] = "Date cannot be in the future"
	}

	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		errs["description"] = "Description is required"
	} else if len([]rune(desc)) < MinDescriptionLen {
		errs["description"] = "Description must be at least 3 characters long"
	}

	return errs
}

// today truncates now to a UTC calendar date. A date equal to today passes the
// future-date rule; only strictly later dates are rejected.
func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
