package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bounds of the source text accepted for generation, in characters.
const (
	MinSourceTextLength = 1000
	MaxSourceTextLength = 5000
)

// Generation is the persisted record of one successful generation call.
// Only the two accepted counters change after creation.
type Generation struct {
	ID                    int64     `json:"id"`
	UserID                uuid.UUID `json:"user_id"`
	Model                 string    `json:"model"`
	SourceTextHash        string    `json:"source_text_hash"`
	SourceTextLength      int       `json:"source_text_length"`
	GeneratedCount        int       `json:"generated_count"`
	AcceptedUneditedCount int       `json:"accepted_unedited_count"`
	AcceptedEditedCount   int       `json:"accepted_edited_count"`
	GenerationDurationMs  int64     `json:"generation_duration"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// GenerationErrorLog records a failed generation. It has no reference to a
// Generation since none exists for a failed call.
type GenerationErrorLog struct {
	ID               int64     `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Model            string    `json:"model"`
	SourceTextHash   string    `json:"source_text_hash"`
	SourceTextLength int       `json:"source_text_length"`
	ErrorCode        string    `json:"error_code"`
	ErrorMessage     string    `json:"error_message"`
	CreatedAt        time.Time `json:"created_at"`
}

// AcceptanceDeltas are the counter increments applied to a generation when
// a batch of its candidates is accepted.
type AcceptanceDeltas struct {
	Unedited int
	Edited   int
}

// IsZero reports whether applying d changes nothing.
func (d AcceptanceDeltas) IsZero() bool {
	return d.Unedited == 0 && d.Edited == 0
}

// CountAcceptance computes the deltas for a batch of sources.
// Manual cards count toward neither counter.
func CountAcceptance(sources []Source) AcceptanceDeltas {
	var d AcceptanceDeltas
	for _, s := range sources {
		switch s {
		case SourceAIFull:
			d.Unedited++
		case SourceAIEdited:
			d.Edited++
		}
	}
	return d
}
