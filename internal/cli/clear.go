package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "clear [store]",
		Short: "Delete stored data",
		Long:  "Deletes one store's data or, with no argument, every store in the namespace.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runClear,
	}
	RootCmd.AddCommand(cmd)
}

func runClear(cmd *cobra.Command, args []string) {
	b, err := openBackend()
	if err != nil {
		exitErr("open storage", err)
	}
	defer b.Close()

	names := storeNames
	if len(args) == 1 {
		names = []string{args[0]}
	}

	for _, name := range names {
		if err := b.Delete(storeKey(name)); err != nil {
			exitErr("clear "+name, err)
		}
		fmt.Printf("%s store cleared\n", name)
	}
}
