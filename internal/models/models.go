package models

// Chunk is one overlapping window of a document's text.
type Chunk struct {
	ChunkID int    `json:"chunk_id"`
	Content string `json:"content"`
}

// Document is the raw text of an upload together with its chunks.
// Key identifies the text and is used to look up the retrieval index.
type Document struct {
	Name   string  `json:"name"`
	Key    string  `json:"key"`
	Text   string  `json:"-"`
	Chunks []Chunk `json:"chunks,omitempty"`
}

type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// String renders the card in the same "Q: ... | A: ..." form the model is asked for.
func (f Flashcard) String() string {
	return "Q: " + f.Question + " | A: " + f.Answer
}

type QuizQuestion struct {
	Question string    `json:"question"`
	Options  [4]string `json:"options"`
	Answer   string    `json:"answer"`
}

// StudySession is the persisted snapshot of generated artifacts.
type StudySession struct {
	Timestamp  string   `json:"timestamp"`
	Notes      string   `json:"notes"`
	Flashcards []string `json:"flashcards"`
	Summary    string   `json:"summary"`
}

// InterviewState tracks a mock interview in progress.
type InterviewState struct {
	Questions []string `json:"questions"`
	Index     int      `json:"index"`
}

// Active reports whether there is a question left to answer.
func (s InterviewState) Active() bool {
	return s.Index >= 0 && s.Index < len(s.Questions)
}

// Current returns the question waiting for an answer.
func (s InterviewState) Current() (string, bool) {
	if !s.Active() {
		return "", false
	}
	return s.Questions[s.Index], true
}

type PromptResponse struct {
	Query   string  `json:"query"`
	Source  string  `json:"source"`
	Content string  `json:"content"`
	Sources []Chunk `json:"sources,omitempty"`
}
