package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"study-assistant/internal/config"
)

const configFilePath = "./configs/config.yaml"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "study-assistant",
	Short: "Turn study material into notes, summaries, flashcards, quizzes and mock interviews",
	Long: `Upload a document (pdf, docx, pptx, xlsx, txt, md) and generate study material from it
with a language model, ask questions about it, or practise a mock interview.

Environment variables:
  GOOGLE_API_KEY     API key for the googleai provider
  OPENAI_API_KEY     API key for the openai provider
  STUDY_API_KEY      API key for any provider, takes precedence
  STUDY_SESSION_DIR  Where saved sessions are written
  STUDY_ADDR         Listen address of the server`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", configFilePath, "Path to the config file")
	rootCmd.AddCommand(serveCmd, generateCmd, askCmd, interviewCmd, sessionsCmd)
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads and validates the config; debug logging is switched on when it asks for it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
