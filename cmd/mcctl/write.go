package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arloliu/go-mcprotocol/mc"
	"github.com/arloliu/go-mcprotocol/mcdata"
)

func newWriteCmd(a *app) *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "write <device> <value...>",
		Short: "Write device values",
		Example: `  mcctl write D1000 1 2 3
  mcctl write D200 3.5 --as float32
  mcctl write Y10 1 0 1`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dev, err := mc.ParseDevice(args[0])
			if err != nil {
				return err
			}

			kind, err := mcdata.ParseKind(as)
			if err != nil {
				return err
			}

			values, err := encodeValues(kind, args[1:])
			if err != nil {
				return err
			}

			client, closer, err := a.openClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closer.Close()

			status, err := client.ExecuteWrite(cmd.Context(), dev, values)
			if err != nil {
				return err
			}
			if !status.IsSuccess() {
				return &statusError{status: status}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d points to %s\n", len(values), dev)

			return nil
		},
	}

	cmd.Flags().StringVar(&as, "as", string(mcdata.KindInt16), "encode the values as "+kindList())

	return cmd
}

// encodeValues converts every textual value and concatenates the words.
func encodeValues(kind mcdata.Kind, texts []string) ([]mc.Word, error) {
	var words []mc.Word
	for _, text := range texts {
		w, err := mcdata.FromString(kind, text)
		if err != nil {
			return nil, err
		}
		words = append(words, w...)
	}

	return words, nil
}
