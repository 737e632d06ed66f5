package prompt

// Ranges accepted from the user. The builder itself never enforces them.
const (
	MinFlashcards = 1
	MaxFlashcards = 20
	MinQuiz       = 1
	MaxQuiz       = 20
	MinQuestions  = 1
	MaxQuestions  = 10
	MinDifficulty = 1
	MaxDifficulty = 5
	MinExperience = 0
	MaxExperience = 50
)

func Clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func ClampFlashcards(n int) int { return Clamp(n, MinFlashcards, MaxFlashcards) }
func ClampQuiz(n int) int       { return Clamp(n, MinQuiz, MaxQuiz) }
func ClampQuestions(n int) int  { return Clamp(n, MinQuestions, MaxQuestions) }
func ClampDifficulty(n int) int { return Clamp(n, MinDifficulty, MaxDifficulty) }
func ClampExperience(n int) int { return Clamp(n, MinExperience, MaxExperience) }
