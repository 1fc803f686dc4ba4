package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	usersCmd := &cobra.Command{Use: "users", Short: "Enrolled user operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List enrolled users and their token status",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			creds, err := e.store.Credentials().List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "USER\tSCOPE\tEXPIRES\tENROLLED")
			for _, c := range creds {
				expires := "-"
				if c.ExpiresAt != nil {
					expires = c.ExpiresAt.UTC().Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					c.UserID, c.Scope, expires, c.FirstAdded.UTC().Format("2006-01-02"))
			}
			return w.Flush()
		},
	}
	usersCmd.AddCommand(listCmd)

	scopesCmd := &cobra.Command{
		Use:   "scopes",
		Short: "Report users missing the required OAuth scopes",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			reports, err := e.batch.MissingScopes(cmd.Context())
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				fmt.Println("all users carry the required scopes")
				return nil
			}
			for _, r := range reports {
				fmt.Printf("%s missing: %s\n", r.UserID, strings.Join(r.Missing, ", "))
			}
			return nil
		},
	}
	usersCmd.AddCommand(scopesCmd)

	rootCmd.AddCommand(usersCmd)
}
