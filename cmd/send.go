package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sales_messages/internal/listener"
)

func newSendCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "send <file|->",
		Short: "Push every line of a file (or stdin) to a running service over TCP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				addr = cfg.TCP.Addr
			}

			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer f.Close()
				in = f
			}

			sent, err := listener.Push(cmd.Context(), addr, in)
			if err != nil {
				return fmt.Errorf("send messages: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "sent %d lines to %s\n", sent, addr)
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "TCP address of the service (default from config)")

	return cmd
}
