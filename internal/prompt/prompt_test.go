package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Flashcards(t *testing.T) {
	out := Build(TaskFlashcards, Params{Text: "Mitochondria produce ATP.", Count: 5})
	assert.Contains(t, out, "Generate 5 flashcards")
	assert.Contains(t, out, "'Q: <question> | A: <answer>'")
	assert.Contains(t, out, "Mitochondria produce ATP.")
}

func TestBuild_PassesValuesThrough(t *testing.T) {
	out := Build(TaskFlashcards, Params{Count: -3})
	assert.Contains(t, out, "Generate -3 flashcards")

	out = Build(TaskQuiz, Params{Count: 7, Difficulty: 9, Text: "t"})
	assert.Contains(t, out, "with 7 questions")
	assert.Contains(t, out, "difficulty level is 9")
}

func TestBuild_Notes(t *testing.T) {
	plain := Build(TaskNotes, Params{Text: "body"})
	assert.NotContains(t, plain, "Pay particular attention")

	focused := Build(TaskNotes, Params{Text: "body", Focus: " enzymes "})
	assert.Contains(t, focused, "Pay particular attention to: enzymes")
	assert.Contains(t, focused, "body")
}

func TestBuild_Interview(t *testing.T) {
	p := Params{JobRole: "Backend Engineer", Experience: 4, Skills: []string{"Go", "SQL"}, Count: 3, Difficulty: 2}
	out := Build(TaskInterviewQuestions, p)
	assert.Contains(t, out, "role of Backend Engineer")
	assert.Contains(t, out, "4 years of experience")
	assert.Contains(t, out, "skills: Go, SQL")
	assert.Contains(t, out, "Generate 3 interview questions")
	assert.NotContains(t, out, "<text>")

	p.Text = "study material"
	assert.Contains(t, Build(TaskInterviewQuestions, p), "study material")
}

func TestBuild_ChatAndEvaluate(t *testing.T) {
	out := Build(TaskChat, Params{Question: "What is ATP?", Context: []string{"first", "second"}})
	assert.Contains(t, out, "first\n\nsecond")
	assert.True(t, strings.HasSuffix(out, "Question: What is ATP?\nHelpful Answer:"))

	out = Build(TaskEvaluateAnswer, Params{Question: "Explain GC", Answer: "It frees memory"})
	assert.Contains(t, out, "Explain GC")
	assert.Contains(t, out, "It frees memory")
}

func TestBuild_EveryTaskRenders(t *testing.T) {
	for _, task := range Tasks() {
		assert.NotEmpty(t, Build(task, Params{}), task)
	}
	assert.Empty(t, Build(Task("poem"), Params{}))
}

func TestParseTask(t *testing.T) {
	task, err := ParseTask(" Flashcards ")
	require.NoError(t, err)
	assert.Equal(t, TaskFlashcards, task)

	_, err = ParseTask("poem")
	assert.Error(t, err)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, ClampFlashcards(0))
	assert.Equal(t, 20, ClampFlashcards(99))
	assert.Equal(t, 10, ClampQuestions(11))
	assert.Equal(t, 5, ClampDifficulty(6))
	assert.Equal(t, 1, ClampDifficulty(-1))
	assert.Equal(t, 0, ClampExperience(-2))
	assert.Equal(t, 50, ClampExperience(51))
	assert.Equal(t, 7, ClampQuiz(7))
}
