package models

const (
	ChunkSeparator   = "\n"
	ContextSeparator = "\n---\n"
	ThinkTag         = `(?s)<think>.*?</think>`
	SessionTimeFmt   = "20060102_150405"
	FlashcardPrefixQ = "Q:"
	FlashcardPrefixA = "A:"
	FlashcardDelim   = "|"
)

var (
	NotesPromptTemplate = `You are an expert tutor. Write clear, well structured study notes for the following text.
Use markdown headings for the main topics, bullet points for key facts, and bold the important terms.
Cover every concept in the text in depth so a student can learn the material from the notes alone.
%s
<text>
%s
</text>
`

	NotesFocusTemplate = "Pay particular attention to: %s\n"

	SummaryPromptTemplate = `Summarize the following text for a student revising for an exam.
Start with a one paragraph overview, then list the key points as bullet points.
Answer only with the summary.
<text>
%s
</text>
`

	FlashcardsPromptTemplate = `Generate %d flashcards from the following text in such a way that the flashcards explain the complete concept in a detailed manner and improve the user's learning.
Format each flashcard on its own line as 'Q: <question> | A: <answer>'.
Do not number the flashcards and do not use the '|' character anywhere else.
<text>
%s
</text>
`

	QuizPromptTemplate = `Create a multiple choice quiz with %d questions from the following text.
The difficulty level is %d on a scale from 1 (easy) to 5 (very hard).
Write each question on its own line in exactly this format:
Q: <question> | A) <option> | B) <option> | C) <option> | D) <option> | Answer: <letter>
Do not use the '|' character anywhere else.
<text>
%s
</text>
`

	InterviewPromptTemplate = `You are interviewing a candidate for the role of %s.
The candidate has %d years of experience and the following skills: %s.
Generate %d interview questions with a difficulty level of %d on a scale from 1 (easy) to 5 (very hard).
Write one question per line, numbered "1.", "2." and so on, with no other text.
`

	InterviewContextTemplate = `Base the questions on the following material where relevant:
<text>
%s
</text>
`

	EvaluatePromptTemplate = `You are an experienced interviewer. Evaluate the candidate's answer to the interview question below.
Give a score from 1 to 10, list the strengths of the answer, what is missing or wrong, and a short model answer.
<question>
%s
</question>
<answer>
%s
</answer>
`

	ChatPromptTemplate = `Use the following pieces of context to answer the question at the end. If you don't know the answer, just say that you don't know, don't try to make up an answer.

%s

Question: %s
Helpful Answer:`
)
