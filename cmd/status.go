package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tm, err := newTokenManager()
		if err != nil {
			return err
		}
		session := tm.Session()
		if !session.LoggedIn() {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Printf("Logged in as %s.\n", session.Email)
		if session.Expired(time.Now()) {
			fmt.Println("Access token expired; it will be refreshed on the next request.")
		} else {
			fmt.Printf("Access token valid until %s.\n", session.ExpiresAt.Local().Format(time.RFC1123))
		}
		return nil
	},
}
