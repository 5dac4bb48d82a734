package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newWalletCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "wallet INFLUENCER_ID",
		Short: "Print an influencer's wallet as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid influencer id %q", args[0])
			}
			wallet, err := e.service().GetWallet(cmd.Context(), id)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(wallet)
		},
	}
}
