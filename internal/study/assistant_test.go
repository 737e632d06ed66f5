package study

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"study-assistant/internal/chromemdb"
	"study-assistant/internal/chunker"
	"study-assistant/internal/llmservice"
	"study-assistant/internal/models"
	"study-assistant/internal/rag"
	"study-assistant/internal/session"
)

// scriptedModel answers with respond(prompt) and records every prompt it saw.
type scriptedModel struct {
	respond func(prompt string) (string, error)
	prompts []string
}

func (m *scriptedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	p := messages[0].Parts[0].(llms.TextContent).Text
	m.prompts = append(m.prompts, p)
	out, err := m.respond(p)
	if err != nil {
		return nil, err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: out}}}, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

type countingEmbedder struct{ docCalls int }

func (e *countingEmbedder) vec(text string) []float32 {
	v := []float32{0.1, 0.1, 0.1}
	for i, w := range []string{"photosynthesis", "respiration", "mitosis"} {
		v[i] += float32(strings.Count(strings.ToLower(text), w))
	}
	return v
}

func (e *countingEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	e.docCalls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vec(t)
	}
	return out, nil
}

func (e *countingEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.vec(text), nil
}

type fixture struct {
	assistant *Assistant
	model     *scriptedModel
	embedder  *countingEmbedder
	dir       string
}

func newFixture(t *testing.T, respond func(string) (string, error)) *fixture {
	t.Helper()
	model := &scriptedModel{respond: respond}
	emb := &countingEmbedder{}
	llm := llmservice.NewClient(model, "test-model", 0.7)
	dir := t.TempDir()
	a := NewAssistant(
		chunker.New(1000, 200),
		llm,
		rag.NewRAG(chromemdb.NewVectorDBManager(emb, 4), llm),
		session.NewStore(dir),
		30000,
	)
	return &fixture{assistant: a, model: model, embedder: emb, dir: dir}
}

// biologyText builds a document of roughly n characters, one sentence per line.
func biologyText(n int) string {
	topics := []string{"Photosynthesis", "Respiration", "Mitosis"}
	var b strings.Builder
	for i := 0; b.Len() < n; i++ {
		fmt.Fprintf(&b, "%s fact %d: cells rely on this process to survive and grow.\n", topics[i%3], i)
	}
	return b.String()[:n]
}

func TestFlashcards_EndToEnd(t *testing.T) {
	f := newFixture(t, func(p string) (string, error) {
		return strings.Join([]string{
			"Q: What is photosynthesis? | A: Turning light into chemical energy.",
			"Q: Where does respiration happen? | A: In the mitochondria.",
			"this line is chatter",
			"Q: What is mitosis? | A: Cell division producing two identical cells.",
			"Q: Bad | line | here",
			"Q: What do cells need to grow? | A: Energy and nutrients.",
			"Q: What is ATP? | A: The cell's energy currency.",
			"Q: One too many? | A: Extra card beyond the request.",
		}, "\n"), nil
	})
	ctx := context.Background()

	st, err := f.assistant.Upload(State{}, "biology.txt", biologyText(3000))
	require.NoError(t, err)
	require.Greater(t, len(st.Document.Chunks), 1)

	st, err = f.assistant.Flashcards(ctx, st, 5)
	require.NoError(t, err)

	require.Len(t, f.model.prompts, 1)
	assert.Contains(t, f.model.prompts[0], "Generate 5 flashcards")
	require.Len(t, st.Flashcards, 5)
	for _, c := range st.Flashcards {
		assert.NotEmpty(t, c.Question)
		assert.NotEmpty(t, c.Answer)
	}
}

func TestFlashcards_ClampsCount(t *testing.T) {
	f := newFixture(t, func(string) (string, error) { return "Q: a | A: b", nil })
	st, err := f.assistant.Upload(State{}, "doc.txt", "short text")
	require.NoError(t, err)

	_, err = f.assistant.Flashcards(context.Background(), st, 50)
	require.NoError(t, err)
	assert.Contains(t, f.model.prompts[0], "Generate 20 flashcards")

	_, err = f.assistant.Flashcards(context.Background(), st, 0)
	require.NoError(t, err)
	assert.Contains(t, f.model.prompts[1], "Generate 1 flashcards")
}

func TestFlashcards_GenerationErrorKeepsState(t *testing.T) {
	f := newFixture(t, func(string) (string, error) { return "", errors.New("quota") })
	st, err := f.assistant.Upload(State{}, "doc.txt", "text")
	require.NoError(t, err)
	st.Flashcards = []models.Flashcard{{Question: "old", Answer: "card"}}

	next, err := f.assistant.Flashcards(context.Background(), st, 5)
	assert.True(t, models.IsGeneration(err))
	assert.Equal(t, st.Flashcards, next.Flashcards)
}

func TestTasksRequireDocument(t *testing.T) {
	f := newFixture(t, func(string) (string, error) { return "unused", nil })
	ctx := context.Background()

	_, err := f.assistant.Notes(ctx, State{}, "")
	assert.ErrorIs(t, err, models.ErrNoDocument)
	_, err = f.assistant.Summary(ctx, State{})
	assert.ErrorIs(t, err, models.ErrNoDocument)
	_, err = f.assistant.Flashcards(ctx, State{}, 5)
	assert.ErrorIs(t, err, models.ErrNoDocument)
	_, err = f.assistant.Quiz(ctx, State{}, 5, 3)
	assert.ErrorIs(t, err, models.ErrNoDocument)
	_, err = f.assistant.Ask(ctx, State{}, "why?")
	assert.ErrorIs(t, err, models.ErrNoDocument)

	assert.Empty(t, f.model.prompts, "no remote call without a document")
}

func TestUpload(t *testing.T) {
	f := newFixture(t, func(string) (string, error) { return "notes", nil })

	_, err := f.assistant.Upload(State{}, "blank.txt", "   ")
	assert.ErrorIs(t, err, models.ErrEmptyContent)

	st, err := f.assistant.Upload(State{}, "a.txt", "first document about mitosis")
	require.NoError(t, err)
	st, err = f.assistant.Notes(context.Background(), st, "")
	require.NoError(t, err)
	st.Interview = models.InterviewState{Questions: []string{"q"}}

	next, err := f.assistant.Upload(st, "b.txt", "second document about respiration")
	require.NoError(t, err)
	assert.Equal(t, "b.txt", next.Document.Name)
	assert.NotEqual(t, st.Document.Key, next.Document.Key)
	assert.Empty(t, next.Notes)
	assert.False(t, next.Interview.Active())
}

func TestNotesAndSummary(t *testing.T) {
	f := newFixture(t, func(p string) (string, error) {
		if strings.Contains(p, "study notes") {
			return "# Notes\n- point", nil
		}
		return "A summary.", nil
	})
	ctx := context.Background()
	st, err := f.assistant.Upload(State{}, "doc.txt", biologyText(1500))
	require.NoError(t, err)

	st, err = f.assistant.Notes(ctx, st, "mitosis")
	require.NoError(t, err)
	st, err = f.assistant.Summary(ctx, st)
	require.NoError(t, err)

	assert.Equal(t, "# Notes\n- point", st.Notes)
	assert.Equal(t, "A summary.", st.Summary)
	assert.Contains(t, f.model.prompts[0], "Pay particular attention to: mitosis")
}

func TestQuiz(t *testing.T) {
	f := newFixture(t, func(string) (string, error) {
		return "Q: 2+2? | A) 3 | B) 4 | C) 5 | D) 6 | Answer: B\nnot a question\nQ: 3+3? | A) 6 | B) 7 | C) 8 | D) 9 | Answer: A", nil
	})
	st, err := f.assistant.Upload(State{}, "math.txt", "arithmetic")
	require.NoError(t, err)

	qs, err := f.assistant.Quiz(context.Background(), st, 1, 9)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "B", qs[0].Answer)
	assert.Contains(t, f.model.prompts[0], "difficulty level is 5")
}

func TestAsk_UsesCachedIndex(t *testing.T) {
	f := newFixture(t, func(p string) (string, error) { return "Because of chlorophyll.", nil })
	ctx := context.Background()
	st, err := f.assistant.Upload(State{}, "bio.txt", biologyText(4000))
	require.NoError(t, err)

	resp, err := f.assistant.Ask(ctx, st, "How does photosynthesis work?")
	require.NoError(t, err)
	assert.Equal(t, "Because of chlorophyll.", resp.Content)
	assert.NotEmpty(t, resp.Sources)
	assert.LessOrEqual(t, len(resp.Sources), 4)

	_, err = f.assistant.Ask(ctx, st, "And respiration?")
	require.NoError(t, err)
	assert.Equal(t, 1, f.embedder.docCalls)
}

func TestInterviewFlow(t *testing.T) {
	f := newFixture(t, func(p string) (string, error) {
		if strings.Contains(p, "interview questions") {
			return "1. What is a goroutine?\n2. How do you avoid data races?\n3. Explain context cancellation.", nil
		}
		return "Score: 7/10", nil
	})
	ctx := context.Background()

	_, err := f.assistant.StartInterview(ctx, State{}, InterviewRequest{Skills: []string{"Go"}})
	assert.True(t, models.IsValidation(err))
	_, err = f.assistant.StartInterview(ctx, State{}, InterviewRequest{JobRole: "Engineer", Skills: []string{" , "}})
	assert.True(t, models.IsValidation(err))
	assert.Empty(t, f.model.prompts)

	st, err := f.assistant.StartInterview(ctx, State{}, InterviewRequest{
		JobRole: "Go Developer", Skills: []string{"Go, concurrency"}, Experience: 80, Count: 2, Difficulty: 0,
	})
	require.NoError(t, err)
	assert.Contains(t, f.model.prompts[0], "50 years of experience")
	assert.Contains(t, f.model.prompts[0], "Generate 2 interview questions")
	assert.Contains(t, f.model.prompts[0], "skills: Go, concurrency")
	require.Equal(t, []string{"What is a goroutine?", "How do you avoid data races?"}, st.Interview.Questions)

	_, _, err = f.assistant.SubmitAnswer(ctx, st, "  ")
	assert.True(t, models.IsValidation(err))

	st, eval, err := f.assistant.SubmitAnswer(ctx, st, "A lightweight thread.")
	require.NoError(t, err)
	assert.Equal(t, "What is a goroutine?", eval.Question)
	assert.Equal(t, "Score: 7/10", eval.Feedback)
	assert.False(t, eval.Done)
	assert.Equal(t, 1, st.Interview.Index)

	st, eval, err = f.assistant.SubmitAnswer(ctx, st, "Use the race detector and channels.")
	require.NoError(t, err)
	assert.True(t, eval.Done)

	_, _, err = f.assistant.SubmitAnswer(ctx, st, "extra")
	assert.True(t, models.IsValidation(err))

	st = f.assistant.EndInterview(st)
	assert.Empty(t, st.Interview.Questions)
	assert.Zero(t, st.Interview.Index)
}

func TestSubmitAnswer_FailureDoesNotAdvance(t *testing.T) {
	f := newFixture(t, func(string) (string, error) { return "", errors.New("timeout") })
	st := State{Interview: models.InterviewState{Questions: []string{"q1", "q2"}}}

	next, eval, err := f.assistant.SubmitAnswer(context.Background(), st, "answer")
	assert.Nil(t, eval)
	assert.True(t, models.IsGeneration(err))
	assert.Equal(t, 0, next.Interview.Index)
}

func TestStartInterview_NoQuestionsParsed(t *testing.T) {
	f := newFixture(t, func(string) (string, error) { return "Sure:", nil })
	_, err := f.assistant.StartInterview(context.Background(), State{}, InterviewRequest{JobRole: "r", Skills: []string{"s"}})
	assert.True(t, models.IsGeneration(err))
}

func TestSave(t *testing.T) {
	f := newFixture(t, func(string) (string, error) { return "unused", nil })
	ctx := context.Background()

	_, err := f.assistant.Save(ctx, State{})
	assert.True(t, models.IsValidation(err))

	st := State{
		Notes:      "notes",
		Summary:    "summary",
		Flashcards: []models.Flashcard{{Question: "What is X?", Answer: "X is Y."}},
	}
	rec, err := f.assistant.Save(ctx, st)
	require.NoError(t, err)

	loaded, err := f.assistant.Store().Load(ctx, rec.Name)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q: What is X? | A: X is Y."}, loaded.Session.Flashcards)
	assert.Equal(t, "notes", loaded.Session.Notes)
}

func TestRelease(t *testing.T) {
	f := newFixture(t, func(string) (string, error) { return "answer", nil })
	ctx := context.Background()
	st, err := f.assistant.Upload(State{}, "bio.txt", biologyText(2000))
	require.NoError(t, err)

	_, err = f.assistant.Ask(ctx, st, "What is mitosis?")
	require.NoError(t, err)
	require.Equal(t, 1, f.embedder.docCalls)

	f.assistant.Release(st)
	f.assistant.Release(State{})

	_, err = f.assistant.Ask(ctx, st, "What is mitosis?")
	require.NoError(t, err)
	assert.Equal(t, 2, f.embedder.docCalls, "index is rebuilt after release")
}
