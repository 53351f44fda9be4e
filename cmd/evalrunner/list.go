/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available collections and scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := loadCatalog(opts.dataDir)
			if err != nil {
				return usageError("failed to load scenarios", err)
			}
			w := cmd.OutOrStdout()
			for _, coll := range catalog.Collections() {
				fmt.Fprintf(w, "%s: %s\n", coll.ID, coll.Name)
				for _, s := range coll.Scenarios {
					required := ""
					if !s.Required {
						required = " (optional)"
					}
					fmt.Fprintf(w, "  %s%s [%s]\n", s.ID, required, strings.Join(s.GraderNames, ", "))
				}
			}
			return nil
		},
	}
}
