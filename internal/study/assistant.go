package study

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"study-assistant/internal/chromemdb"
	"study-assistant/internal/chunker"
	"study-assistant/internal/config"
	"study-assistant/internal/embedding"
	"study-assistant/internal/helper"
	"study-assistant/internal/llmservice"
	"study-assistant/internal/models"
	"study-assistant/internal/prompt"
	"study-assistant/internal/rag"
	"study-assistant/internal/session"
)

// Assistant runs the study tasks. It is stateless apart from the shared retrieval index cache;
// per-user data lives in State.
type Assistant struct {
	chunker    *chunker.Chunker
	llm        *llmservice.Client
	rag        *rag.RAG
	store      *session.Store
	maxContext int
}

func NewAssistant(c *chunker.Chunker, llm *llmservice.Client, r *rag.RAG, store *session.Store, maxContextChars int) *Assistant {
	return &Assistant{chunker: c, llm: llm, rag: r, store: store, maxContext: maxContextChars}
}

// New wires an Assistant from configuration.
func New(ctx context.Context, cfg *config.Config) (*Assistant, error) {
	llm, err := llmservice.NewClientFromConfig(ctx, &cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("init generation client: %w", err)
	}
	embedder, err := embedding.NewEmbedder(ctx, &cfg.EmbedLLM)
	if err != nil {
		return nil, fmt.Errorf("init embedder: %w", err)
	}

	index := chromemdb.NewVectorDBManager(embedder, cfg.RAG.TopK)
	log.Info().
		Str("provider", cfg.LLM.Provider).
		Str("model", llm.Model()).
		Float64("temperature", llm.Temperature()).
		Int("top_k", index.TopK()).
		Msg("Assistant ready")
	return NewAssistant(
		chunker.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap),
		llm,
		rag.NewRAG(index, llm),
		session.NewStore(cfg.Session.Dir),
		cfg.RAG.MaxContextChars,
	), nil
}

func (a *Assistant) Store() *session.Store { return a.store }

// Upload replaces the session's document. Generated artifacts and any interview in progress
// belong to the old document and are cleared; its retrieval index is dropped.
func (a *Assistant) Upload(st State, name, text string) (State, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return st, models.ErrEmptyContent
	}
	key, err := helper.DocumentKey(text)
	if err != nil {
		return st, fmt.Errorf("document key: %w", err)
	}

	if st.Document != nil && st.Document.Key != key {
		if err := a.rag.Forget(st.Document.Key); err != nil {
			log.Warn().Err(err).Str("key", st.Document.Key).Msg("Failed to drop previous index")
		}
	}

	doc := &models.Document{Name: name, Key: key, Text: text, Chunks: a.chunker.Chunk(text)}
	log.Info().Str("document", name).Int("chars", len(text)).Int("chunks", len(doc.Chunks)).Msg("Document uploaded")
	return State{Document: doc}, nil
}

// Release drops the retrieval index of the session's document. Called when a session ends.
func (a *Assistant) Release(st State) {
	if st.Document == nil {
		return
	}
	if err := a.rag.Forget(st.Document.Key); err != nil {
		log.Warn().Err(err).Str("key", st.Document.Key).Msg("Failed to drop index")
	}
}

func (a *Assistant) sourceText(st State) (string, error) {
	if !st.HasDocument() {
		return "", models.ErrNoDocument
	}
	return helper.TruncateText(st.Document.Text, a.maxContext), nil
}

func (a *Assistant) Notes(ctx context.Context, st State, focus string) (State, error) {
	text, err := a.sourceText(st)
	if err != nil {
		return st, err
	}
	notes, err := a.llm.Generate(ctx, prompt.Build(prompt.TaskNotes, prompt.Params{Text: text, Focus: focus}))
	if err != nil {
		return st, fmt.Errorf("notes: %w", err)
	}
	st.Notes = notes
	return st, nil
}

func (a *Assistant) Summary(ctx context.Context, st State) (State, error) {
	text, err := a.sourceText(st)
	if err != nil {
		return st, err
	}
	summary, err := a.llm.Generate(ctx, prompt.Build(prompt.TaskSummary, prompt.Params{Text: text}))
	if err != nil {
		return st, fmt.Errorf("summary: %w", err)
	}
	st.Summary = summary
	return st, nil
}

// Flashcards asks for count cards (clamped to 1..20) and keeps at most that many valid ones.
// Malformed lines are dropped, so fewer cards than requested is not an error.
func (a *Assistant) Flashcards(ctx context.Context, st State, count int) (State, error) {
	text, err := a.sourceText(st)
	if err != nil {
		return st, err
	}
	count = prompt.ClampFlashcards(count)

	completion, err := a.llm.Generate(ctx, prompt.Build(prompt.TaskFlashcards, prompt.Params{Text: text, Count: count}))
	if err != nil {
		return st, fmt.Errorf("flashcards: %w", err)
	}

	cards := ParseFlashcards(completion)
	if len(cards) > count {
		cards = cards[:count]
	}
	log.Info().Int("requested", count).Int("parsed", len(cards)).Msg("Generated flashcards")
	st.Flashcards = cards
	return st, nil
}

func (a *Assistant) Quiz(ctx context.Context, st State, count, difficulty int) ([]models.QuizQuestion, error) {
	text, err := a.sourceText(st)
	if err != nil {
		return nil, err
	}
	count = prompt.ClampQuiz(count)

	completion, err := a.llm.Generate(ctx, prompt.Build(prompt.TaskQuiz, prompt.Params{
		Text:       text,
		Count:      count,
		Difficulty: prompt.ClampDifficulty(difficulty),
	}))
	if err != nil {
		return nil, fmt.Errorf("quiz: %w", err)
	}

	questions := ParseQuiz(completion)
	if len(questions) > count {
		questions = questions[:count]
	}
	return questions, nil
}

// Ask answers question from the chunks of the session's document closest to it.
func (a *Assistant) Ask(ctx context.Context, st State, question string) (*models.PromptResponse, error) {
	if !st.HasDocument() {
		return nil, models.ErrNoDocument
	}
	return a.rag.Query(ctx, st.Document, question)
}

type InterviewRequest struct {
	JobRole     string   `json:"job_role"`
	Skills      []string `json:"skills"`
	Experience  int      `json:"experience"`
	Count       int      `json:"count"`
	Difficulty  int      `json:"difficulty"`
	UseDocument bool     `json:"use_document"`
}

// Evaluation is the feedback on one interview answer.
type Evaluation struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Feedback string `json:"feedback"`
	Done     bool   `json:"done"`
}

// SplitSkills turns "Go, SQL ,  Kubernetes" into its non-empty items.
func SplitSkills(s string) []string {
	var out []string
	for _, skill := range strings.Split(s, ",") {
		if skill = strings.TrimSpace(skill); skill != "" {
			out = append(out, skill)
		}
	}
	return out
}

// StartInterview generates a fresh question set, replacing any interview in progress.
func (a *Assistant) StartInterview(ctx context.Context, st State, req InterviewRequest) (State, error) {
	role := strings.TrimSpace(req.JobRole)
	if role == "" {
		return st, models.NewValidationError("job_role", "is required")
	}
	var skills []string
	for _, s := range req.Skills {
		skills = append(skills, SplitSkills(s)...)
	}
	if len(skills) == 0 {
		return st, models.NewValidationError("skills", "at least one skill is required")
	}

	p := prompt.Params{
		JobRole:    role,
		Skills:     skills,
		Experience: prompt.ClampExperience(req.Experience),
		Count:      prompt.ClampQuestions(req.Count),
		Difficulty: prompt.ClampDifficulty(req.Difficulty),
	}
	if req.UseDocument {
		text, err := a.sourceText(st)
		if err != nil {
			return st, err
		}
		p.Text = text
	}

	completion, err := a.llm.Generate(ctx, prompt.Build(prompt.TaskInterviewQuestions, p))
	if err != nil {
		return st, fmt.Errorf("interview questions: %w", err)
	}
	questions := ParseQuestions(completion)
	if len(questions) == 0 {
		return st, &models.GenerationError{Op: "interview questions", Err: errors.New("completion contained no questions")}
	}
	if len(questions) > p.Count {
		questions = questions[:p.Count]
	}

	st.Interview = models.InterviewState{Questions: questions, Index: 0}
	return st, nil
}

// SubmitAnswer evaluates answer against the current question and moves to the next one.
// On failure the index does not move, so the same question can be answered again.
func (a *Assistant) SubmitAnswer(ctx context.Context, st State, answer string) (State, *Evaluation, error) {
	question, ok := st.Interview.Current()
	if !ok {
		return st, nil, models.NewValidationError("interview", "no interview in progress")
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return st, nil, models.NewValidationError("answer", "is required")
	}

	feedback, err := a.llm.Generate(ctx, prompt.Build(prompt.TaskEvaluateAnswer, prompt.Params{
		Question: question,
		Answer:   answer,
	}))
	if err != nil {
		return st, nil, fmt.Errorf("evaluate answer: %w", err)
	}

	st.Interview.Index++
	return st, &Evaluation{
		Question: question,
		Answer:   answer,
		Feedback: feedback,
		Done:     !st.Interview.Active(),
	}, nil
}

func (a *Assistant) EndInterview(st State) State {
	return st.EndInterview()
}

// Save persists the session's notes, flashcards and summary as a new snapshot.
func (a *Assistant) Save(ctx context.Context, st State) (*session.Record, error) {
	if st.Notes == "" && st.Summary == "" && len(st.Flashcards) == 0 {
		return nil, models.NewValidationError("session", "nothing to save yet")
	}
	return a.store.Save(ctx, st.Notes, st.FlashcardLines(), st.Summary)
}
