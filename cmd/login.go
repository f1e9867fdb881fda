package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to MyHours and store the session",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")
}

func prompt(label string) (string, error) {
	fmt.Printf("%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	email := loginEmail
	password := loginPassword

	var err error
	if email == "" {
		if email, err = prompt("Email"); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = prompt("Password"); err != nil {
			return err
		}
	}

	tm, err := newTokenManager()
	if err != nil {
		return err
	}

	session, err := tm.LogIn(context.Background(), email, password)
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s.\n", session.Email)
	return nil
}
