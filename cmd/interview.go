package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"study-assistant/internal/models"
	"study-assistant/internal/study"
)

var (
	interviewReq    study.InterviewRequest
	interviewSkills string
	interviewFile   string
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Practise a mock interview in the terminal",
	Long: `Generates interview questions for a role and evaluates each answer you type.
Finish an answer with an empty line. Type "quit" to end the interview early.`,
	RunE: runInterview,
}

func init() {
	interviewCmd.Flags().StringVar(&interviewReq.JobRole, "role", "", "Job role to interview for")
	interviewCmd.Flags().StringVar(&interviewSkills, "skills", "", "Comma separated list of skills")
	interviewCmd.Flags().IntVar(&interviewReq.Experience, "experience", 2, "Years of experience, 0 to 50")
	interviewCmd.Flags().IntVarP(&interviewReq.Count, "count", "n", 5, "Number of questions, 1 to 10")
	interviewCmd.Flags().IntVar(&interviewReq.Difficulty, "difficulty", 3, "Difficulty from 1 to 5")
	interviewCmd.Flags().StringVarP(&interviewFile, "file", "f", "", "Optional document to base the questions on")
	_ = interviewCmd.MarkFlagRequired("role")
	_ = interviewCmd.MarkFlagRequired("skills")
}

func runInterview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var (
		assistant *study.Assistant
		st        study.State
	)
	if interviewFile != "" {
		assistant, st, err = openDocument(ctx, cfg, interviewFile)
		interviewReq.UseDocument = true
	} else {
		assistant, err = study.New(ctx, cfg)
	}
	if err != nil {
		return err
	}

	interviewReq.Skills = study.SplitSkills(interviewSkills)
	if st, err = assistant.StartInterview(ctx, st, interviewReq); err != nil {
		return err
	}

	in := bufio.NewReader(os.Stdin)
	for st.Interview.Active() {
		question, _ := st.Interview.Current()
		fmt.Printf("\nQuestion %d of %d: %s\n> ", st.Interview.Index+1, len(st.Interview.Questions), question)

		answer, err := readAnswer(in)
		if errors.Is(err, io.EOF) || strings.EqualFold(answer, "quit") {
			break
		}
		if err != nil {
			return err
		}

		next, eval, err := assistant.SubmitAnswer(ctx, st, answer)
		if models.IsGeneration(err) {
			log.Error().Err(err).Msg("Evaluation failed, answer the question again")
			continue
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		st = next
		fmt.Printf("\nFeedback:\n%s\n", eval.Feedback)
	}

	fmt.Println("\nInterview finished.")
	return nil
}

// readAnswer reads lines until an empty one. EOF ends the answer as well; EOF before any
// text is returned as io.EOF.
func readAnswer(in *bufio.Reader) (string, error) {
	var lines []string
	for {
		line, err := in.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			lines = append(lines, line)
		}
		switch {
		case err == io.EOF && len(lines) == 0:
			return "", io.EOF
		case err != nil && err != io.EOF:
			return "", fmt.Errorf("read answer: %w", err)
		case err == io.EOF || (line == "" && len(lines) > 0):
			return strings.Join(lines, "\n"), nil
		}
	}
}
