package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"study-assistant/internal/config"
	"study-assistant/internal/helper"
	"study-assistant/internal/parser"
	"study-assistant/internal/prompt"
	"study-assistant/internal/study"
)

var (
	genFile       string
	genTask       string
	genFocus      string
	genCount      int
	genDifficulty int
	genSave       bool
	askFile       string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate notes, a summary, flashcards or a quiz from a document",
	Example: `  study-assistant generate --file lecture.pdf --task flashcards --count 10
  study-assistant generate --file notes.docx --task notes --focus "cell division" --save`,
	RunE: runGenerate,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the most relevant parts of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		assistant, st, err := openDocument(ctx, cfg, askFile)
		if err != nil {
			return err
		}

		resp, err := assistant.Ask(ctx, st, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Sources:\n%s\n\nAnswer:\n%s\n", resp.Source, resp.Content)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&genFile, "file", "f", "", "Path to the document")
	generateCmd.Flags().StringVarP(&genTask, "task", "t", string(prompt.TaskNotes), "One of notes, summary, flashcards, quiz")
	generateCmd.Flags().StringVar(&genFocus, "focus", "", "Topic the notes should concentrate on")
	generateCmd.Flags().IntVarP(&genCount, "count", "n", 10, "Number of flashcards or quiz questions")
	generateCmd.Flags().IntVar(&genDifficulty, "difficulty", 3, "Quiz difficulty from 1 to 5")
	generateCmd.Flags().BoolVar(&genSave, "save", false, "Save the generated material as a session file")
	_ = generateCmd.MarkFlagRequired("file")

	askCmd.Flags().StringVarP(&askFile, "file", "f", "", "Path to the document")
	_ = askCmd.MarkFlagRequired("file")
}

// openDocument wires an assistant and returns a state holding the parsed file.
func openDocument(ctx context.Context, cfg *config.Config, path string) (*study.Assistant, study.State, error) {
	text, err := parser.ParseDocument(path)
	if err != nil {
		return nil, study.State{}, err
	}
	assistant, err := study.New(ctx, cfg)
	if err != nil {
		return nil, study.State{}, err
	}
	st, err := assistant.Upload(study.State{}, path, text)
	if err != nil {
		return nil, study.State{}, err
	}
	return assistant, st, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	task, err := prompt.ParseTask(genTask)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	assistant, st, err := openDocument(ctx, cfg, genFile)
	if err != nil {
		return err
	}

	switch task {
	case prompt.TaskNotes:
		if st, err = assistant.Notes(ctx, st, genFocus); err != nil {
			return err
		}
		fmt.Println(st.Notes)
	case prompt.TaskSummary:
		if st, err = assistant.Summary(ctx, st); err != nil {
			return err
		}
		fmt.Println(st.Summary)
	case prompt.TaskFlashcards:
		if st, err = assistant.Flashcards(ctx, st, genCount); err != nil {
			return err
		}
		for i, card := range st.Flashcards {
			fmt.Printf("%d. %s\n   %s\n\n", i+1, card.Question, card.Answer)
		}
	case prompt.TaskQuiz:
		questions, err := assistant.Quiz(ctx, st, genCount, genDifficulty)
		if err != nil {
			return err
		}
		helper.PrettyPrint(questions)
	default:
		return fmt.Errorf("task %q cannot be run from generate", task)
	}

	if !genSave {
		return nil
	}
	rec, err := assistant.Save(ctx, st)
	if err != nil {
		return err
	}
	fmt.Printf("Saved session to %s\n", rec.URL)
	return nil
}
