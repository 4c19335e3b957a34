// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AleutianAI/AleutianCRM/services/crm"
	"github.com/AleutianAI/AleutianCRM/services/llm"
)

func newTestExecutor(t *testing.T) (*Executor, *crm.Store, *crm.Identity) {
	t.Helper()
	store, err := crm.Open(filepath.Join(t.TempDir(), "crm.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Seed(context.Background(), "org-1", "user-1"); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	identity := &crm.Identity{OrgID: "org-1", UserID: "user-1", UserName: "Demo User", OrgName: "Aleutian Demo Co"}
	return NewExecutor(store), store, identity
}

func call(name, input string) llm.ToolCall {
	return llm.ToolCall{ID: "toolu_test", Name: name, Input: json.RawMessage(input)}
}

func TestExecute_SearchLeads(t *testing.T) {
	executor, _, identity := newTestExecutor(t)
	ctx := context.Background()

	result := executor.Execute(ctx, identity, call("search_leads", `{"rating":"Hot"}`))
	if !strings.Contains(result, "Jane Doe") || !strings.Contains(result, "Acme Corp") {
		t.Errorf("result = %q, want the Hot lead row", result)
	}
	if !strings.HasPrefix(result, "Found 1 lead(s):") {
		t.Errorf("result = %q, want a Found header", result)
	}

	empty := executor.Execute(ctx, identity, call("search_leads", `{"query":"nonexistent"}`))
	if empty != "No leads found." {
		t.Errorf("empty search = %q, want %q", empty, "No leads found.")
	}
}

func TestExecute_SearchLeads_CapsAtTen(t *testing.T) {
	executor, store, identity := newTestExecutor(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		if _, err := store.CreateLead(ctx, "org-1", "user-1", crm.NewLead{
			FirstName: fmt.Sprintf("Bulk%02d", i), LastName: "Lead", Company: "BulkCo",
		}); err != nil {
			t.Fatalf("failed to create lead: %v", err)
		}
	}

	result := executor.Execute(ctx, identity, call("search_leads", `{"query":"BulkCo"}`))
	rows := strings.Count(result, "•")
	if rows != 10 {
		t.Errorf("formatted rows = %d, want 10", rows)
	}
}

func TestExecute_SearchContactsAndDeals(t *testing.T) {
	executor, _, identity := newTestExecutor(t)
	ctx := context.Background()

	contacts := executor.Execute(ctx, identity, call("search_contacts", `{"query":"acme"}`))
	if !strings.Contains(contacts, "Sam Okafor") {
		t.Errorf("contacts = %q, want Sam Okafor", contacts)
	}

	deals := executor.Execute(ctx, identity, call("search_deals", `{"stage":"Negotiation"}`))
	if !strings.Contains(deals, "Northwind renewal") || !strings.Contains(deals, "$18500.00") {
		t.Errorf("deals = %q, want the Negotiation deal with amount", deals)
	}

	none := executor.Execute(ctx, identity, call("search_deals", `{"query":"nothing-matches"}`))
	if none != "No deals found." {
		t.Errorf("empty deal search = %q, want %q", none, "No deals found.")
	}
}

func TestExecute_SearchDeals_RejectsBadStage(t *testing.T) {
	executor, _, identity := newTestExecutor(t)

	result := executor.Execute(context.Background(), identity, call("search_deals", `{"stage":"Imaginary"}`))
	if !strings.HasPrefix(result, "Error executing search_deals:") {
		t.Errorf("result = %q, want a validation error result", result)
	}
}

func TestExecute_GetStats(t *testing.T) {
	executor, _, identity := newTestExecutor(t)
	ctx := context.Background()

	tests := []struct {
		metric string
		want   string
	}{
		{"leads", "You have 3 leads."},
		{"LEADS", "You have 3 leads."},
		{"contacts", "You have 2 contacts."},
		{"deals", "You have 3 deals."},
		{"open_deals", "You have 2 open deals worth $60500.00."},
		{"won_deals", "You have won 1 deals worth $9500.00."},
		{"activities", "You have 2 recorded activities."},
	}
	for _, tt := range tests {
		got := executor.Execute(ctx, identity, call("get_stats", fmt.Sprintf(`{"metric":%q}`, tt.metric)))
		if got != tt.want {
			t.Errorf("get_stats(%q) = %q, want %q", tt.metric, got, tt.want)
		}
	}

	summary := executor.Execute(ctx, identity, call("get_stats", `{"metric":"everything"}`))
	if !strings.HasPrefix(summary, "CRM summary:") {
		t.Errorf("unknown metric = %q, want the combined summary", summary)
	}

	missing := executor.Execute(ctx, identity, call("get_stats", `{}`))
	if !strings.HasPrefix(missing, "Error executing get_stats:") {
		t.Errorf("missing metric = %q, want a validation error result", missing)
	}
}

func TestExecute_CreateLead(t *testing.T) {
	executor, store, identity := newTestExecutor(t)
	ctx := context.Background()

	result := executor.Execute(ctx, identity, call("create_lead",
		`{"first_name":"Ada","last_name":"Lovelace","company":"Analytical Engines","rating":"Hot"}`))
	if result != "Created lead Ada Lovelace (Analytical Engines)." {
		t.Errorf("result = %q, want the confirmation sentence", result)
	}

	created, err := store.SearchLeads(ctx, "org-1", crm.LeadFilter{Query: "Lovelace"}, 10)
	if err != nil {
		t.Fatalf("failed to search created lead: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("created leads = %d, want 1", len(created))
	}
	if created[0].OwnerID != "user-1" {
		t.Errorf("owner = %q, want the acting user", created[0].OwnerID)
	}
}

func TestExecute_CreateLead_RequiresName(t *testing.T) {
	executor, store, identity := newTestExecutor(t)
	ctx := context.Background()

	before, err := store.LeadCount(ctx, "org-1")
	if err != nil {
		t.Fatalf("failed to count leads: %v", err)
	}

	result := executor.Execute(ctx, identity, call("create_lead", `{"first_name":"Ada"}`))
	if !strings.HasPrefix(result, "Error executing create_lead:") {
		t.Errorf("result = %q, want a validation error result", result)
	}

	after, err := store.LeadCount(ctx, "org-1")
	if err != nil {
		t.Fatalf("failed to count leads: %v", err)
	}
	if after != before {
		t.Errorf("lead count changed from %d to %d, want no write on rejected input", before, after)
	}
}

func TestExecute_Navigate(t *testing.T) {
	executor, _, identity := newTestExecutor(t)
	ctx := context.Background()

	tests := []struct {
		page string
		want string
	}{
		{"leads", "Navigate to: /leads"},
		{"Pipeline", "Navigate to: /deals"},
		{"settings", "Navigate to: /settings"},
		{"phone", "Navigate to: /dialer"},
		{"products", "Navigate to: /products"},
		{"warp-drive", "Navigate to: /"},
	}
	for _, tt := range tests {
		got := executor.Execute(ctx, identity, call("navigate", fmt.Sprintf(`{"page":%q}`, tt.page)))
		if got != tt.want {
			t.Errorf("navigate(%q) = %q, want %q", tt.page, got, tt.want)
		}
	}
}

func TestNavigate_CoversFallbackPages(t *testing.T) {
	reachable := map[string]bool{}
	for _, path := range pagePaths {
		reachable[path] = true
	}

	for _, rule := range fallbackRules {
		start := strings.Index(rule.reply, "](")
		if start < 0 {
			continue
		}
		end := strings.Index(rule.reply[start:], ")")
		path := rule.reply[start+2 : start+end]
		if !reachable[path] {
			t.Errorf("fallback advertises %s but navigate has no page mapping to it", path)
		}
	}
}

func TestExecute_UnknownTool(t *testing.T) {
	executor, _, identity := newTestExecutor(t)

	result := executor.Execute(context.Background(), identity, call("launch_rockets", `{}`))
	if result != "Unknown tool" {
		t.Errorf("result = %q, want %q", result, "Unknown tool")
	}
}
