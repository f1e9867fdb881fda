package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Invalidate the session on the server and forget it locally",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tm, err := newTokenManager()
		if err != nil {
			return err
		}
		if !tm.IsLoggedIn() {
			fmt.Println("Not logged in.")
			return nil
		}
		if err := tm.LogOut(context.Background()); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}
