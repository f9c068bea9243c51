package generation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SystemPrompt instructs the model to answer with the candidates document.
const SystemPrompt = `You are an expert at creating educational flashcards.
Read the text provided by the user and create concise question/answer flashcards covering its key facts and concepts.
Rules:
- The front is a question or prompt of at most 200 characters.
- The back is the answer of at most 500 characters.
- Write the flashcards in the language of the source text.
Respond only with JSON of the form {"flashcard_candidates":[{"front":"...","back":"..."}]}.`

// SchemaName names CandidatesSchema in structured output requests.
const SchemaName = "flashcard_candidates"

// CandidatesSchema is the JSON schema of a generator response.
var CandidatesSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "flashcard_candidates": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "front": {"type": "string"},
          "back": {"type": "string"}
        },
        "required": ["front", "back"],
        "additionalProperties": false
      }
    }
  },
  "required": ["flashcard_candidates"],
  "additionalProperties": false
}`)

type candidatesDocument struct {
	Candidates []Candidate `json:"flashcard_candidates"`
}

// ParseCandidates decodes a generator response document. Candidates with a
// blank side are dropped; whitespace around each side is trimmed.
func ParseCandidates(data []byte) ([]Candidate, error) {
	var doc candidatesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return CleanCandidates(doc.Candidates), nil
}

// CleanCandidates trims both sides and drops candidates with a blank side.
func CleanCandidates(in []Candidate) []Candidate {
	out := make([]Candidate, 0, len(in))
	for _, c := range in {
		c.Front = strings.TrimSpace(c.Front)
		c.Back = strings.TrimSpace(c.Back)
		if c.Front == "" || c.Back == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}
