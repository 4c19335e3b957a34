// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianCRM/services/crm"
)

func newSeedCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed demo CRM data into a local database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := crm.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Seed(cmd.Context(), orgID, userID); err != nil {
				return err
			}

			stats, err := store.Snapshot(context.Background(), orgID)
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %s: %d leads, %d contacts, %d deals, %d activities\n",
				orgID, stats.Leads, stats.Contacts, stats.Deals, stats.Activities)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "crm.db", "Path to the SQLite database")
	return cmd
}
