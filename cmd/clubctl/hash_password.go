package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// hashPasswordCmd prints a bcrypt hash for seeding users by hand. The
// password comes from the argument or, when omitted, the first stdin line.
func (a *app) hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := resolvePassword(cmd, args)
			if err != nil {
				return err
			}
			hash, err := a.hash(password)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			printf(cmd.OutOrStdout(), "%s\n", hash)
			return nil
		},
	}
}

func resolvePassword(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return "", errors.New("password is required")
	}
	return password, nil
}
