package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arloliu/go-mcprotocol/mc"
	"github.com/arloliu/go-mcprotocol/mcdata"
)

func newReadCmd(a *app) *cobra.Command {
	var (
		size int
		as   string
	)

	cmd := &cobra.Command{
		Use:   "read <device>",
		Short: "Read device values",
		Example: `  mcctl read D1000 --size 4
  mcctl read D200 --as float32 --size 4
  mcctl read X1A0 --size 16`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dev, err := mc.ParseDevice(args[0])
			if err != nil {
				return err
			}

			var kind mcdata.Kind
			if as != "" {
				if kind, err = mcdata.ParseKind(as); err != nil {
					return err
				}
			}

			if !cmd.Flags().Changed("size") {
				size = max(kind.WordCount(), 1)
			}

			client, closer, err := a.openClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closer.Close()

			values, status, err := client.ExecuteRead(cmd.Context(), dev, size)
			if err != nil {
				return err
			}
			if !status.IsSuccess() {
				return &statusError{status: status}
			}

			out := cmd.OutOrStdout()
			if kind == "" {
				for i, v := range values {
					fmt.Fprintf(out, "%s\t%d\n", dev.Offset(i), v)
				}

				return nil
			}

			texts, err := mcdata.ToStrings(kind, values)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, strings.Join(texts, "\n"))

			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", 1, "number of points to read")
	cmd.Flags().StringVar(&as, "as", "", "decode the words as "+kindList())

	return cmd
}

func kindList() string {
	kinds := mcdata.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}

	return strings.Join(names, "|")
}
