package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fitsync/fitsync/internal/category"
	"github.com/fitsync/fitsync/internal/dates"
	"github.com/fitsync/fitsync/internal/model"
)

func init() {
	var userFlag, categoryFlag, startFlag, endFlag string

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Fetch and persist Fitbit data for one user or all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			var window []string
			if startFlag != "" {
				window, err = dates.GenRange(startFlag, endFlag, true)
				if err != nil {
					return err
				}
			} else {
				window = dates.Window(time.Now(), e.cfg.DaysPrior, e.cfg.NumDays)
			}

			var creds []*model.Credential
			if userFlag == "all" {
				creds, err = e.store.Credentials().List(ctx)
				if err != nil {
					return fmt.Errorf("list users: %w", err)
				}
			} else {
				cred, err := e.store.Credentials().Get(ctx, userFlag)
				if err != nil {
					return fmt.Errorf("user %s: %w", userFlag, err)
				}
				creds = []*model.Credential{cred}
			}

			for _, cred := range creds {
				if _, err := e.imp.ProcessUser(ctx, cred, window, categoryFlag); err != nil {
					return err
				}
			}
			fmt.Printf("imported %d day(s) for %d user(s)\n", len(window), len(creds))
			return nil
		},
	}
	importCmd.Flags().StringVarP(&userFlag, "user", "u", "", "Fitbit user id, or \"all\" (required)")
	importCmd.Flags().StringVarP(&categoryFlag, "category", "c", category.All, "Category name (e.g. getSleep), or \"all\"")
	importCmd.Flags().StringVarP(&startFlag, "start", "s", "", "Start date YYYY-MM-DD (default: rolling window)")
	importCmd.Flags().StringVarP(&endFlag, "end", "e", "", "End date YYYY-MM-DD (inclusive; single day when empty)")
	_ = importCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(importCmd)
}
