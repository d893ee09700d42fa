package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arloliu/go-mcprotocol/internal/mcsim"
	"github.com/arloliu/go-mcprotocol/logger"
	"github.com/arloliu/go-mcprotocol/mc"
)

func newSimCmd(a *app) *cobra.Command {
	var (
		listen string
		preset []string
	)

	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run an in-memory PLC simulator",
		Example: `  mcctl sim --listen 127.0.0.1:5000
  mcctl sim --set D1000=1 --set Y10=1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := mcsim.New(
				mcsim.WithFrameProfile(a.cfg.Frame),
				mcsim.WithLogger(logger.GetLogger()),
			)

			for _, p := range preset {
				dev, value, err := parsePreset(p)
				if err != nil {
					return err
				}
				srv.Set(dev, value)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.Start(ctx, listen); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "simulator listening on %s\n", srv.Addr())

			<-ctx.Done()

			return srv.Close()
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:5000", "listen address")
	cmd.Flags().StringArrayVar(&preset, "set", nil, "initial device value, e.g. D1000=1 (repeatable)")

	return cmd
}

// parsePreset parses "<device>=<int16>".
func parsePreset(s string) (mc.Device, mc.Word, error) {
	devText, valueText, ok := strings.Cut(s, "=")
	if !ok || devText == "" {
		return mc.Device{}, 0, fmt.Errorf("invalid preset %q: want <device>=<value>", s)
	}

	value, err := strconv.ParseInt(strings.TrimSpace(valueText), 0, 16)
	if err != nil {
		return mc.Device{}, 0, fmt.Errorf("invalid preset %q: %w", s, err)
	}

	dev, err := mc.ParseDevice(devText)
	if err != nil {
		return mc.Device{}, 0, err
	}

	return dev, mc.Word(value), nil
}
