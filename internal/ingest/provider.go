package ingest

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// Result holds the outcome of an ingest operation.
type Result struct {
	DocumentID uuid.UUID `json:"document_id"`
	Unchanged  bool      `json:"unchanged"`

	SessionsReceived  int `json:"sessions_received"`
	ExercisesReceived int `json:"exercises_received"`
	SetsReceived      int `json:"sets_received"`

	EffortsReceived int   `json:"efforts_received"`
	EffortsInserted int64 `json:"efforts_inserted"`

	Message string `json:"message,omitempty"`
}

// HashBody returns the hex sha256 of a document body. Identical bodies are
// never stored twice in a row.
func HashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
