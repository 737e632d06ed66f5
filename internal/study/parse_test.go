package study

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-assistant/internal/models"
)

func TestParseFlashcards(t *testing.T) {
	cards := ParseFlashcards("Q: What is X? | A: X is Y.")
	require.Len(t, cards, 1)
	assert.Equal(t, models.Flashcard{Question: "What is X?", Answer: "X is Y."}, cards[0])
}

func TestParseFlashcards_DropsMalformed(t *testing.T) {
	completion := `Here are your flashcards:
Q: What is ATP? | A: The energy currency of the cell.
Q: No separator here A: nothing
Q: Too | many | separators
- Q: Where is DNA stored? | A: In the nucleus.

Q:  | A: missing question
Q: Missing answer? | A:   `

	cards := ParseFlashcards(completion)
	require.Len(t, cards, 2)
	assert.Equal(t, "What is ATP?", cards[0].Question)
	assert.Equal(t, "The energy currency of the cell.", cards[0].Answer)
	assert.Equal(t, "Where is DNA stored?", cards[1].Question)
}

func TestParseFlashcards_MarkdownLabels(t *testing.T) {
	completion := strings.Join([]string{
		"**Q:** What is mitosis? | **A:** Division into two identical cells.",
		"- **Q: Where is DNA stored?** | **A: In the nucleus**",
		"Q: What does **ATP** carry? | A: Energy for the **cell**.",
	}, "\n")

	cards := ParseFlashcards(completion)
	require.Len(t, cards, 3)
	assert.Equal(t, models.Flashcard{Question: "What is mitosis?", Answer: "Division into two identical cells."}, cards[0])
	assert.Equal(t, models.Flashcard{Question: "Where is DNA stored?", Answer: "In the nucleus"}, cards[1])
	assert.Equal(t, models.Flashcard{Question: "What does **ATP** carry?", Answer: "Energy for the **cell**."}, cards[2])
}

func TestParseFlashcards_Empty(t *testing.T) {
	assert.Empty(t, ParseFlashcards(""))
	assert.Empty(t, ParseFlashcards("no cards today"))
}

func TestParseQuiz(t *testing.T) {
	completion := `Q1: Which organelle makes ATP? | A) Nucleus | B) Mitochondrion | C) Ribosome | D) Golgi | Answer: B
Q: Broken line | A) one | B) two | Answer: A
Q: Options out of order | B) one | A) two | C) three | D) four | Answer: A
Q: What carries oxygen? | A) Platelets | B) Plasma | C) Red blood cells | D) White blood cells | Answer: (c)`

	qs := ParseQuiz(completion)
	require.Len(t, qs, 2)
	assert.Equal(t, "Which organelle makes ATP?", qs[0].Question)
	assert.Equal(t, [4]string{"Nucleus", "Mitochondrion", "Ribosome", "Golgi"}, qs[0].Options)
	assert.Equal(t, "B", qs[0].Answer)
	assert.Equal(t, "What carries oxygen?", qs[1].Question)
	assert.Equal(t, "C", qs[1].Answer)
}

func TestParseQuestions(t *testing.T) {
	completion := `Here are the questions:
1. Explain goroutines.
2) How do channels differ from mutexes?

- What is a context used for?
3.`

	assert.Equal(t, []string{
		"Explain goroutines.",
		"How do channels differ from mutexes?",
		"What is a context used for?",
	}, ParseQuestions(completion))
}

func TestSplitSkills(t *testing.T) {
	assert.Equal(t, []string{"Go", "SQL", "Kubernetes"}, SplitSkills("Go, SQL ,, Kubernetes "))
	assert.Empty(t, SplitSkills(" , "))
}
