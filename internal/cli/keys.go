package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List stored keys",
		Run:   runKeys,
	}
	RootCmd.AddCommand(cmd)
}

func runKeys(cmd *cobra.Command, args []string) {
	b, err := openBackend()
	if err != nil {
		exitErr("open storage", err)
	}
	defer b.Close()

	keys, err := b.Keys()
	if err != nil {
		exitErr("list keys", err)
	}
	for _, k := range keys {
		fmt.Println(k)
	}
}
