package domain

// Source is the provenance tag of a flashcard.
type Source string

const (
	// SourceManual marks a card typed in by the user.
	SourceManual Source = "manual"
	// SourceAIFull marks an AI candidate accepted without changes.
	SourceAIFull Source = "ai-full"
	// SourceAIEdited marks an AI candidate the user changed before or after accepting.
	SourceAIEdited Source = "ai-edited"
)

// IsValid reports whether s is a known source.
func (s Source) IsValid() bool {
	switch s {
	case SourceManual, SourceAIFull, SourceAIEdited:
		return true
	}
	return false
}

// IsAI reports whether s came from a generation.
func (s Source) IsAI() bool {
	return s == SourceAIFull || s == SourceAIEdited
}

// CardContent is the front/back text pair of a card or candidate.
type CardContent struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// DeriveSource returns the source of an AI candidate given the content it
// was generated with and its current content. It is the only place the
// ai-full/ai-edited decision is made.
func DeriveSource(original, current CardContent) Source {
	if original == current {
		return SourceAIFull
	}
	return SourceAIEdited
}

// SourceAfterEdit returns the source a stored flashcard has after its
// content changes from old to updated. Only ai-full cards move, and only
// when the content really changed; manual and ai-edited cards keep their tag.
func SourceAfterEdit(current Source, old, updated CardContent) Source {
	if current == SourceAIFull && old != updated {
		return SourceAIEdited
	}
	return current
}
