package prompt

import (
	"fmt"
	"strings"

	"study-assistant/internal/models"
)

type Task string

const (
	TaskNotes              Task = "notes"
	TaskSummary            Task = "summary"
	TaskFlashcards         Task = "flashcards"
	TaskQuiz               Task = "quiz"
	TaskInterviewQuestions Task = "interview_questions"
	TaskEvaluateAnswer     Task = "evaluate_answer"
	TaskChat               Task = "chat"
)

// Params carries every value a template may interpolate. Each task reads only the fields it needs.
type Params struct {
	Text       string
	Focus      string
	Count      int
	Difficulty int
	JobRole    string
	Skills     []string
	Experience int
	Question   string
	Answer     string
	Context    []string
}

// Build renders the instruction for task. Values are interpolated as given; callers clamp
// ranges beforehand. An unknown task renders as the empty string.
func Build(task Task, p Params) string {
	switch task {
	case TaskNotes:
		focus := ""
		if f := strings.TrimSpace(p.Focus); f != "" {
			focus = fmt.Sprintf(models.NotesFocusTemplate, f)
		}
		return fmt.Sprintf(models.NotesPromptTemplate, focus, p.Text)
	case TaskSummary:
		return fmt.Sprintf(models.SummaryPromptTemplate, p.Text)
	case TaskFlashcards:
		return fmt.Sprintf(models.FlashcardsPromptTemplate, p.Count, p.Text)
	case TaskQuiz:
		return fmt.Sprintf(models.QuizPromptTemplate, p.Count, p.Difficulty, p.Text)
	case TaskInterviewQuestions:
		out := fmt.Sprintf(models.InterviewPromptTemplate,
			p.JobRole, p.Experience, strings.Join(p.Skills, ", "), p.Count, p.Difficulty)
		if strings.TrimSpace(p.Text) != "" {
			out += fmt.Sprintf(models.InterviewContextTemplate, p.Text)
		}
		return out
	case TaskEvaluateAnswer:
		return fmt.Sprintf(models.EvaluatePromptTemplate, p.Question, p.Answer)
	case TaskChat:
		return fmt.Sprintf(models.ChatPromptTemplate, strings.Join(p.Context, "\n\n"), p.Question)
	default:
		return ""
	}
}

// Tasks lists the task kinds Build knows about.
func Tasks() []Task {
	return []Task{TaskNotes, TaskSummary, TaskFlashcards, TaskQuiz, TaskInterviewQuestions, TaskEvaluateAnswer, TaskChat}
}

// ParseTask accepts a task name case-insensitively.
func ParseTask(s string) (Task, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range Tasks() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown task %q", s)
}
