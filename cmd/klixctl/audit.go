package main

import (
	"encoding/json"
	"fmt"

	"github.com/ayush-bhatt-07/klix-marketplace/internal/app"
	"github.com/spf13/cobra"
)

func newAuditCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Check the ledger for inconsistencies",
		Long: `Check every wallet balance against its transactions, look for duplicated
acceptances and for accepted tasks still in the open list. Exits non-zero when
anything is found. The document is never modified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := app.NewAuditor(e.repo, nil, e.logger).Run(cmd.Context())

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if !report.OK() {
				return fmt.Errorf("audit found %d inconsistencies", len(report.Findings))
			}
			return nil
		},
	}
}
