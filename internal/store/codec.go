package store

import (
	"encoding/json"
	"fmt"
	"time"

	"spendlog/internal/core"
)

// CollectionKey is the single KV key the whole collection lives under. The
// value is a JSON array of transaction objects; there is no schema version
// envelope (shape drift is absorbed by per-record coercion instead).
const CollectionKey = "transactions"

// EncodeCollection serializes the ordered collection. A nil collection encodes
// as an empty array, never JSON null.
func EncodeCollection(txs []core.Transaction) ([]byte, error) {
	if txs == nil {
		txs = []core.Transaction{}
	}
	return json.Marshal(txs)
}

// DecodeCollection parses a persisted collection. A value that is not a JSON
// array returns an error for the caller to log. Individual records whose
// fields fail type or shape coercion are dropped silently rather than letting
// half-typed values flow downstream.
func DecodeCollection(data []byte) ([]core.Transaction, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}

	out := make([]core.Transaction, 0, len(raw))
	for _, r := range raw {
		if tx, ok := coerceRecord(r); ok {
			out = append(out, tx)
		}
	}
	return out, nil
}

// coerceRecord validates one stored record's field types: string id and
// description, numeric amount, calendar date, parseable creation timestamp.
func coerceRecord(data []byte) (core.Transaction, bool) {
	var rec struct {
		ID          string          `json:"id"`
		Amount      json.RawMessage `json:"amount"`
		Date        string          `json:"date"`
		Description string          `json:"description"`
		CreatedAt   string          `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return core.Transaction{}, false
	}
	if rec.ID == "" || rec.Description == "" {
		return core.Transaction{}, false
	}
	// the amount must be a JSON number token, not a quoted string
	if len(rec.Amount) == 0 || rec.Amount[0] == '"' {
		return core.Transaction{}, false
	}
	amount, err := core.AmountFromString(string(rec.Amount))
	if err != nil {
		return core.Transaction{}, false
	}
	if _, err := time.Parse(core.DateLayout, rec.Date); err != nil {
		return core.Transaction{}, false
	}
	if _, err := time.Parse(time.RFC3339, rec.CreatedAt); err != nil {
		return core.Transaction{}, false
	}

	return core.Transaction{
		ID:          rec.ID,
		Amount:      amount,
		Date:        rec.Date,
		Description: rec.Description,
		CreatedAt:   rec.CreatedAt,
	}, true
}
