// Package cli implements the vaultctl storage inspection commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"travel-vault-server/internal/storage"
)

var (
	dataDir     string
	backendFlag string
	namespace   string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "vaultctl",
	Short: "Inspect and manage travel vault storage",
	Long:  "Debugging companion for the travel vault server. Reads the same storage the server writes; stop the server before mutating.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "data", "Storage directory")
	RootCmd.PersistentFlags().StringVarP(&backendFlag, "backend", "b", "file", "Storage backend: file or sqlite")
	RootCmd.PersistentFlags().StringVarP(&namespace, "namespace", "n", "travel-vault", "Key namespace")
}

func openBackend() (storage.Backend, error) {
	switch backendFlag {
	case "sqlite":
		return storage.NewSQLiteBackend(filepath.Join(dataDir, "vault.db"))
	case "file":
		return storage.NewFileBackend(dataDir)
	default:
		return nil, fmt.Errorf("unknown backend %q", backendFlag)
	}
}

// storeKey expands a short store name (auth, loyalty, ktn, settings, chat)
// to its namespaced storage key.
func storeKey(name string) string {
	return namespace + "-" + name
}

var storeNames = []string{"auth", "loyalty", "ktn", "settings", "chat"}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "vaultctl: %s: %v\n", msg, err)
	os.Exit(1)
}
