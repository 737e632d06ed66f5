package study

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"study-assistant/internal/models"
)

var (
	bulletRe      = regexp.MustCompile(`^\s*(?:[-*•]+|\d+[.)])\s*`)
	quizOptionRe  = regexp.MustCompile(`^([A-Da-d])\)\s*(.+)$`)
	quizAnswerRe  = regexp.MustCompile(`(?i)^answer\s*:\s*\(?([A-D])\)?`)
	quizQuestionR = regexp.MustCompile(`^(?:Q\d*\s*[:.]\s*)`)
)

// ParseFlashcards reads one "Q: ... | A: ..." card per line. Lines without exactly one
// separator, or with an empty side, are dropped.
func ParseFlashcards(completion string) []models.Flashcard {
	var cards []models.Flashcard
	for _, line := range lines(completion) {
		parts := strings.Split(line, models.FlashcardDelim)
		if len(parts) != 2 {
			log.Debug().Str("line", line).Msg("Dropping malformed flashcard")
			continue
		}
		q := cardField(parts[0], models.FlashcardPrefixQ)
		a := cardField(parts[1], models.FlashcardPrefixA)
		if q == "" || a == "" {
			log.Debug().Str("line", line).Msg("Dropping incomplete flashcard")
			continue
		}
		cards = append(cards, models.Flashcard{Question: q, Answer: a})
	}
	return cards
}

// cardField strips the label from one side of a card, including markdown emphasis around it
// such as "**Q:**". Emphasis inside the text is kept.
func cardField(s, label string) string {
	s = strings.TrimLeft(strings.TrimSpace(s), "*_")
	s = strings.TrimLeft(strings.TrimPrefix(s, label), "*_ \t")
	if strings.Count(s, "**")%2 == 1 {
		s = strings.TrimRight(s, "*")
	}
	return strings.TrimSpace(s)
}

// ParseQuiz reads one question per line in the form
// "Q: <question> | A) .. | B) .. | C) .. | D) .. | Answer: <letter>". Anything else is dropped.
func ParseQuiz(completion string) []models.QuizQuestion {
	var questions []models.QuizQuestion
	for _, line := range lines(completion) {
		q, ok := parseQuizLine(line)
		if !ok {
			log.Debug().Str("line", line).Msg("Dropping malformed quiz line")
			continue
		}
		questions = append(questions, q)
	}
	return questions
}

func parseQuizLine(line string) (models.QuizQuestion, bool) {
	var q models.QuizQuestion
	parts := strings.Split(line, models.FlashcardDelim)
	if len(parts) != 6 {
		return q, false
	}

	q.Question = strings.TrimSpace(quizQuestionR.ReplaceAllString(strings.TrimSpace(parts[0]), ""))
	if q.Question == "" {
		return q, false
	}
	for i := 0; i < 4; i++ {
		m := quizOptionRe.FindStringSubmatch(strings.TrimSpace(parts[i+1]))
		if m == nil || strings.ToUpper(m[1]) != string(rune('A'+i)) {
			return q, false
		}
		q.Options[i] = strings.TrimSpace(m[2])
	}
	m := quizAnswerRe.FindStringSubmatch(strings.TrimSpace(parts[5]))
	if m == nil {
		return q, false
	}
	q.Answer = strings.ToUpper(m[1])
	return q, true
}

// ParseQuestions reads a numbered or bulleted list, one question per line. Lead-in lines
// ending in a colon are skipped.
func ParseQuestions(completion string) []string {
	var out []string
	for _, line := range lines(completion) {
		if strings.HasSuffix(line, ":") {
			continue
		}
		if q := strings.TrimSpace(bulletRe.ReplaceAllString(line, "")); q != "" {
			out = append(out, q)
		}
	}
	return out
}

// lines returns the non-blank lines of s with list bullets removed.
func lines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if strings.HasPrefix(l, "-") || strings.HasPrefix(l, "*") || strings.HasPrefix(l, "•") {
			l = strings.TrimSpace(strings.TrimLeft(l, "-*•"))
		}
		out = append(out, l)
	}
	return out
}
