package review

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/azsonic/10xdevs-flashcards/internal/api"
	"github.com/azsonic/10xdevs-flashcards/internal/domain"
	"github.com/azsonic/10xdevs-flashcards/internal/generation"
	"github.com/google/uuid"
)

// State is a step of the generation flow.
type State string

const (
	StateInput      State = "input"
	StateGenerating State = "generating"
	StateReview     State = "review"
	StateSaving     State = "saving"
	// StateSaved is reached after a successful save. It behaves like
	// StateInput for Submit and is left by Reset.
	StateSaved State = "saved"
)

var (
	// ErrInvalidTransition is returned when a transition is not allowed in
	// the current state. The machine is left unchanged.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrInvalidSourceText is returned by Submit for text outside the
	// accepted length.
	ErrInvalidSourceText = errors.New("invalid source text")

	// ErrCandidateNotFound is returned by Edit and Reject for an unknown ID.
	ErrCandidateNotFound = errors.New("candidate not found")

	// ErrNothingToSave is returned by BeginSave when the review has no
	// generation ID or no candidates left.
	ErrNothingToSave = errors.New("nothing to save")
)

// Candidate is a generated card under review.
type Candidate struct {
	// ID is assigned on arrival and stays stable across edits.
	ID       string
	Front    string
	Back     string
	Original domain.CardContent
	Source   domain.Source
}

func (c Candidate) content() domain.CardContent {
	return domain.CardContent{Front: c.Front, Back: c.Back}
}

// View is a copy of the machine's state for rendering.
type View struct {
	State        State
	SourceText   string
	GenerationID *int64
	Candidates   []Candidate
	Error        string
	SavedCount   int
	CanSave      bool
}

// Machine is the generation flow's state container. The zero value is not
// usable; create one with NewMachine.
type Machine struct {
	state        State
	sourceText   string
	generationID *int64
	candidates   []Candidate
	errMessage   string
	savedCount   int
	newID        func() string
}

// NewMachine returns a Machine in StateInput.
func NewMachine() *Machine {
	return &Machine{state: StateInput, newID: func() string { return uuid.NewString() }}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Error returns the user-facing message of the last failure, or "".
func (m *Machine) Error() string {
	return m.errMessage
}

func (m *Machine) require(states ...State) error {
	for _, s := range states {
		if m.state == s {
			return nil
		}
	}
	return fmt.Errorf("%w: not allowed in state %s", ErrInvalidTransition, m.state)
}

// Submit starts generation for text. Text outside the accepted length sets
// an error message and keeps the machine in StateInput.
func (m *Machine) Submit(text string) error {
	if err := m.require(StateInput, StateSaved); err != nil {
		return err
	}
	if m.state == StateSaved {
		m.Reset()
	}

	n := utf8.RuneCountInString(text)
	if n < domain.MinSourceTextLength || n > domain.MaxSourceTextLength {
		m.errMessage = MsgSourceTextLength
		return fmt.Errorf("%w: %d characters", ErrInvalidSourceText, n)
	}

	m.errMessage = ""
	m.sourceText = text
	m.state = StateGenerating
	return nil
}

// GenerationSucceeded moves to StateReview with one candidate per
// generated card, each tagged ai-full.
func (m *Machine) GenerationSucceeded(generationID int64, cards []generation.Candidate) error {
	if err := m.require(StateGenerating); err != nil {
		return err
	}

	candidates := make([]Candidate, len(cards))
	for i, c := range cards {
		original := domain.CardContent{Front: c.Front, Back: c.Back}
		candidates[i] = Candidate{
			ID:       m.newID(),
			Front:    c.Front,
			Back:     c.Back,
			Original: original,
			Source:   domain.DeriveSource(original, original),
		}
	}

	id := generationID
	m.generationID = &id
	m.candidates = candidates
	m.errMessage = ""
	m.state = StateReview
	return nil
}

// GenerationFailed returns to StateInput with a message for err.
func (m *Machine) GenerationFailed(err error) error {
	if e := m.require(StateGenerating); e != nil {
		return e
	}
	m.errMessage = GenerationErrorMessage(err)
	m.state = StateInput
	return nil
}

// Edit replaces a candidate's front and back. Its source is recomputed
// against its own original content, so reverting an edit restores ai-full.
func (m *Machine) Edit(id, front, back string) error {
	if err := m.require(StateReview); err != nil {
		return err
	}
	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrCandidateNotFound, id)
	}

	c := &m.candidates[i]
	c.Front = front
	c.Back = back
	c.Source = domain.DeriveSource(c.Original, c.content())
	return nil
}

// Reject removes a candidate.
func (m *Machine) Reject(id string) error {
	if err := m.require(StateReview); err != nil {
		return err
	}
	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrCandidateNotFound, id)
	}
	m.candidates = append(m.candidates[:i], m.candidates[i+1:]...)
	return nil
}

// CanSave reports whether BeginSave would succeed.
func (m *Machine) CanSave() bool {
	return m.state == StateReview && m.generationID != nil && len(m.candidates) > 0
}

// BeginSave moves to StateSaving and returns the request that accepts the
// remaining candidates.
func (m *Machine) BeginSave() (api.CreateFlashcardsRequest, error) {
	if err := m.require(StateReview); err != nil {
		return api.CreateFlashcardsRequest{}, err
	}
	if m.generationID == nil {
		m.errMessage = MsgNoGenerationID
		return api.CreateFlashcardsRequest{}, fmt.Errorf("%w: no generation ID", ErrNothingToSave)
	}
	if len(m.candidates) == 0 {
		m.errMessage = MsgNoFlashcards
		return api.CreateFlashcardsRequest{}, fmt.Errorf("%w: no candidates", ErrNothingToSave)
	}

	id := *m.generationID
	req := api.CreateFlashcardsRequest{
		GenerationID: &id,
		Flashcards:   make([]api.FlashcardItem, len(m.candidates)),
	}
	for i, c := range m.candidates {
		req.Flashcards[i] = api.FlashcardItem{Front: c.Front, Back: c.Back, Source: string(c.Source)}
	}

	m.errMessage = ""
	m.state = StateSaving
	return req, nil
}

// SaveSucceeded clears the round and moves to StateSaved.
func (m *Machine) SaveSucceeded(createdCount int) error {
	if err := m.require(StateSaving); err != nil {
		return err
	}
	m.Reset()
	m.savedCount = createdCount
	m.state = StateSaved
	return nil
}

// SaveFailed returns to StateReview with the same candidates.
func (m *Machine) SaveFailed(err error) error {
	if e := m.require(StateSaving); e != nil {
		return e
	}
	m.errMessage = SaveErrorMessage(err)
	m.state = StateReview
	return nil
}

// Reset discards the round and returns to StateInput. It is allowed in
// every state; a pending API call's outcome is then rejected as an invalid
// transition.
func (m *Machine) Reset() {
	m.state = StateInput
	m.sourceText = ""
	m.generationID = nil
	m.candidates = nil
	m.errMessage = ""
	m.savedCount = 0
}

// View returns a copy of the current state.
func (m *Machine) View() View {
	v := View{
		State:      m.state,
		SourceText: m.sourceText,
		Error:      m.errMessage,
		SavedCount: m.savedCount,
		CanSave:    m.CanSave(),
	}
	if m.generationID != nil {
		id := *m.generationID
		v.GenerationID = &id
	}
	if m.candidates != nil {
		v.Candidates = append([]Candidate(nil), m.candidates...)
	}
	return v
}

func (m *Machine) indexOf(id string) int {
	for i := range m.candidates {
		if m.candidates[i].ID == id {
			return i
		}
	}
	return -1
}
