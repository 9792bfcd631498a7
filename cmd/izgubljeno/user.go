package main

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/izgubljeno/internal/db"
	"github.com/erazemk/izgubljeno/internal/store"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var (
	newUsername string
	newName     string
	newEmail    string
	newPhone    string
)

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account with a generated password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}

		password, err := generatePassword(16)
		if err != nil {
			return fmt.Errorf("generating password: %w", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}

		user, err := store.CreateUser(cmd.Context(), database, newUsername, newName, newEmail, newPhone, string(hash))
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("username %q or email %q already registered", newUsername, newEmail)
		}
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}

		printCreatedUser(cmd.OutOrStdout(), user.Username, password)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&newUsername, "username", "", "login name")
	userCreateCmd.Flags().StringVar(&newName, "name", "", "display name")
	userCreateCmd.Flags().StringVar(&newEmail, "email", "", "contact email")
	userCreateCmd.Flags().StringVar(&newPhone, "phone", "", "contact phone")
	for _, name := range []string{"username", "name", "email"} {
		_ = userCreateCmd.MarkFlagRequired(name)
	}

	userCmd.AddCommand(userCreateCmd)
}

// printCreatedUser prints the new account's credentials.
func printCreatedUser(w io.Writer, username, password string) {
	fmt.Fprintln(w, "Account created:")
	fmt.Fprintf(w, "  Username: %s\n", username)
	fmt.Fprintf(w, "  Password: %s\n", password)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Save this password, it cannot be recovered.")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
