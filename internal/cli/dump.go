package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "dump [store]",
		Short: "Print stored data as JSON",
		Long:  "Prints one store (auth, loyalty, ktn, settings, chat) or, with no argument, every store that has data.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runDump,
	}
	RootCmd.AddCommand(cmd)
}

func runDump(cmd *cobra.Command, args []string) {
	b, err := openBackend()
	if err != nil {
		exitErr("open storage", err)
	}
	defer b.Close()

	names := storeNames
	if len(args) == 1 {
		names = []string{args[0]}
	}

	out := make(map[string]json.RawMessage)
	for _, name := range names {
		data, ok, err := b.Get(storeKey(name))
		if err != nil {
			exitErr("read "+name, err)
		}
		if !ok {
			continue
		}
		if json.Valid(data) {
			out[name] = json.RawMessage(data)
		} else {
			quoted, _ := json.Marshal(string(data))
			out[name] = quoted
		}
	}

	if len(args) == 1 && len(out) == 0 {
		fmt.Printf("no data for %s store\n", args[0])
		return
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		exitErr("encode", err)
	}
	fmt.Print(buf.String())
}
