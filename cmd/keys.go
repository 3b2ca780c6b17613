package cmd

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Generate session cookie key material for the server environment",
		Long: `Generates a fresh 32-byte hash key and 32-byte block key for the
session cookie codec, base64-encoded as the server expects them.
Rotating the keys invalidates all outstanding session cookies.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := make([]byte, 64)
			if _, err := rand.Read(keys); err != nil {
				return fmt.Errorf("read randomness: %w", err)
			}
			fmt.Fprintln(os.Stdout, "# session cookie keys, add to the server environment")
			fmt.Fprintf(os.Stdout, "COOKIE_HASH_KEY=%s\n", base64.StdEncoding.EncodeToString(keys[:32]))
			fmt.Fprintf(os.Stdout, "COOKIE_BLOCK_KEY=%s\n", base64.StdEncoding.EncodeToString(keys[32:]))
			return nil
		},
	}
}
