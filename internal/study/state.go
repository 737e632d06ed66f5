package study

import "study-assistant/internal/models"

// State is everything one user has built up in a session. Operations take a State and return
// the updated copy; nothing is shared between users.
type State struct {
	Document   *models.Document      `json:"document,omitempty"`
	Notes      string                `json:"notes,omitempty"`
	Summary    string                `json:"summary,omitempty"`
	Flashcards []models.Flashcard    `json:"flashcards,omitempty"`
	Interview  models.InterviewState `json:"interview"`
}

// HasDocument reports whether a document with text has been uploaded.
func (s State) HasDocument() bool {
	return s.Document != nil && len(s.Document.Chunks) > 0
}

// EndInterview clears the question set and index together.
func (s State) EndInterview() State {
	s.Interview = models.InterviewState{}
	return s
}

// FlashcardLines renders the cards the way they are persisted.
func (s State) FlashcardLines() []string {
	out := make([]string, len(s.Flashcards))
	for i, c := range s.Flashcards {
		out[i] = c.String()
	}
	return out
}
