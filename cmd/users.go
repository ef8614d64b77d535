package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List the accounts that can log in",
	Long:  `List the accounts stored in the database and the scheme of their password digest.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db := openDatabase(loadConfig())
		defer db.Close() //nolint: errcheck

		users, err := db.GetAllUsers(cmd.Context())
		if err != nil {
			return err
		}
		if len(users) == 0 {
			fmt.Println("No users yet, run `recipebook migrate` to seed the configured ones.")
			return nil
		}

		for _, user := range users {
			fmt.Printf("%4d  %-20s %s\n", user.ID, user.Username, digestScheme(user.PasswordDigest))
		}
		return nil
	},
}

func digestScheme(digest string) string {
	switch {
	case strings.HasPrefix(digest, "$2"):
		return "bcrypt"
	case len(digest) == 64:
		return "sha256 (legacy)"
	default:
		return "unknown"
	}
}

func init() {
	rootCmd.AddCommand(usersCmd)
}
