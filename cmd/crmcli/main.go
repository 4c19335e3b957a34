// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command crmcli is a small operator CLI for the Aleutian CRM
// assistant: an interactive chat client against a running server, and
// a seeder for local demo data.
//
// Usage:
//
//	crmcli chat
//	crmcli chat --server http://localhost:8080 --org org-demo --user user-demo
//	crmcli seed --db ./crm.db
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	orgID     string
	userID    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "crmcli",
		Short: "Operator CLI for the Aleutian CRM assistant",
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Base URL of the CRM server")
	rootCmd.PersistentFlags().StringVar(&orgID, "org", "org-demo", "Organization ID sent with requests")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "user-demo", "User ID sent with requests")

	rootCmd.AddCommand(newChatCommand())
	rootCmd.AddCommand(newSeedCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
