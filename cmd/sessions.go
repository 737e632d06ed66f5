package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"study-assistant/internal/config"
	"study-assistant/internal/helper"
	"study-assistant/internal/session"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions [name]",
	Short: "List saved sessions, or print one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// listing needs no credentials, so the config is not validated
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		store := session.NewStore(cfg.Session.Dir)

		if len(args) == 1 {
			rec, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			helper.PrettyPrint(rec.Session)
			return nil
		}

		names, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Printf("No saved sessions in %s\n", store.Location())
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}
