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
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/AleutianCRM/services/crm"
	"github.com/AleutianAI/AleutianCRM/services/llm"
)

// searchLimit caps every search tool at this many rows.
const searchLimit = 10

const unknownToolResult = "Unknown tool"

type searchLeadsInput struct {
	Query  string `json:"query"`
	Status string `json:"status" validate:"omitempty,oneof=New Contacted Qualified Unqualified"`
	Rating string `json:"rating" validate:"omitempty,oneof=Hot Warm Cold"`
}

type searchContactsInput struct {
	Query string `json:"query"`
}

type searchDealsInput struct {
	Query string `json:"query"`
	Stage string `json:"stage" validate:"omitempty,oneof='Prospecting' 'Qualification' 'Proposal' 'Negotiation' 'Closed Won' 'Closed Lost'"`
}

type getStatsInput struct {
	Metric string `json:"metric" validate:"required"`
}

type createLeadInput struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Company   string `json:"company"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Rating    string `json:"rating" validate:"omitempty,oneof=Hot Warm Cold"`
}

type navigateInput struct {
	Page string `json:"page" validate:"required"`
}

// pagePaths maps page keywords the model may emit to application paths.
var pagePaths = map[string]string{
	"leads":      "/leads",
	"lead":       "/leads",
	"contacts":   "/contacts",
	"contact":    "/contacts",
	"deals":      "/deals",
	"deal":       "/deals",
	"pipeline":   "/deals",
	"activities": "/activities",
	"activity":   "/activities",
	"calendar":   "/calendar",
	"mail":       "/mail",
	"email":      "/mail",
	"dialer":     "/dialer",
	"dial":       "/dialer",
	"phone":      "/dialer",
	"products":   "/products",
	"product":    "/products",
	"reports":    "/reports",
	"report":     "/reports",
	"settings":   "/settings",
	"setting":    "/settings",
	"dashboard":  "/",
	"home":       "/",
}

const homePath = "/"

type toolHandler func(ctx context.Context, identity *crm.Identity, input json.RawMessage) (string, error)

// Executor runs one tool call at a time against the CRM store and
// formats the outcome as text for the model.
//
// Thread Safety: Executor is safe for concurrent use; it holds no
// per-call state.
type Executor struct {
	store    *crm.Store
	validate *validator.Validate
	handlers map[string]toolHandler
}

// NewExecutor builds an Executor over the given store.
func NewExecutor(store *crm.Store) *Executor {
	e := &Executor{
		store:    store,
		validate: validator.New(),
	}
	e.handlers = map[string]toolHandler{
		"search_leads":    e.searchLeads,
		"search_contacts": e.searchContacts,
		"search_deals":    e.searchDeals,
		"get_stats":       e.getStats,
		"create_lead":     e.createLead,
		"navigate":        e.navigate,
	}
	return e
}

// Execute runs a single tool call and always returns a textual result.
//
// Description:
//
//	Dispatches by tool name to a typed handler. Input is decoded and
//	validated against the declared schema before any store access.
//	Faults never surface as errors: an unknown tool name, a validation
//	failure, or a store error all become a descriptive string result so
//	the orchestration loop can keep going and the model can recover.
//
// Inputs:
//   - ctx: Request-scoped context, passed through to store queries.
//   - identity: The caller's resolved organization and user.
//   - call: The model-issued tool invocation.
//
// Outputs:
//   - string: Human-readable result text. Never empty.
//
// Thread Safety: Safe for concurrent use.
func (e *Executor) Execute(ctx context.Context, identity *crm.Identity, call llm.ToolCall) string {
	start := time.Now()

	handler, ok := e.handlers[call.Name]
	if !ok {
		slog.Warn("unknown tool requested", "tool", call.Name)
		recordToolMetrics(call.Name, time.Since(start), statusUnknown)
		return unknownToolResult
	}

	result, err := handler(ctx, identity, call.InputOrEmpty())
	if err != nil {
		slog.Error("tool execution failed", "tool", call.Name, "error", llm.SafeLogString(err.Error()))
		recordToolMetrics(call.Name, time.Since(start), statusError)
		return fmt.Sprintf("Error executing %s: %v", call.Name, err)
	}

	recordToolMetrics(call.Name, time.Since(start), statusOK)
	return result
}

func decodeInput[T any](e *Executor, raw json.RawMessage) (*T, error) {
	var in T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, fmt.Errorf("invalid input: %w", err)
		}
	}
	if err := e.validate.Struct(&in); err != nil {
		return nil, fmt.Errorf("input failed validation: %w", err)
	}
	return &in, nil
}

func (e *Executor) searchLeads(ctx context.Context, identity *crm.Identity, raw json.RawMessage) (string, error) {
	in, err := decodeInput[searchLeadsInput](e, raw)
	if err != nil {
		return "", err
	}
	leads, err := e.store.SearchLeads(ctx, identity.OrgID, crm.LeadFilter{
		Query:  in.Query,
		Status: in.Status,
		Rating: in.Rating,
	}, searchLimit)
	if err != nil {
		return "", err
	}
	if len(leads) == 0 {
		return "No leads found.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d lead(s):\n", len(leads))
	for _, l := range leads {
		fmt.Fprintf(&b, "• %s %s — %s (%s, %s)", l.FirstName, l.LastName, orDash(l.Company), l.Status, orDash(l.Rating))
		if l.Email != "" {
			fmt.Fprintf(&b, " %s", l.Email)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (e *Executor) searchContacts(ctx context.Context, identity *crm.Identity, raw json.RawMessage) (string, error) {
	in, err := decodeInput[searchContactsInput](e, raw)
	if err != nil {
		return "", err
	}
	contacts, err := e.store.SearchContacts(ctx, identity.OrgID, in.Query, searchLimit)
	if err != nil {
		return "", err
	}
	if len(contacts) == 0 {
		return "No contacts found.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d contact(s):\n", len(contacts))
	for _, c := range contacts {
		fmt.Fprintf(&b, "• %s %s — %s", c.FirstName, c.LastName, orDash(c.Company))
		if c.Email != "" {
			fmt.Fprintf(&b, " %s", c.Email)
		}
		if c.Phone != "" {
			fmt.Fprintf(&b, " %s", c.Phone)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (e *Executor) searchDeals(ctx context.Context, identity *crm.Identity, raw json.RawMessage) (string, error) {
	in, err := decodeInput[searchDealsInput](e, raw)
	if err != nil {
		return "", err
	}
	deals, err := e.store.SearchDeals(ctx, identity.OrgID, crm.DealFilter{
		Query: in.Query,
		Stage: in.Stage,
	}, searchLimit)
	if err != nil {
		return "", err
	}
	if len(deals) == 0 {
		return "No deals found.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d deal(s):\n", len(deals))
	for _, d := range deals {
		fmt.Fprintf(&b, "• %s — %s ($%.2f)\n", d.Name, d.Stage, d.Amount)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (e *Executor) getStats(ctx context.Context, identity *crm.Identity, raw json.RawMessage) (string, error) {
	in, err := decodeInput[getStatsInput](e, raw)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(strings.TrimSpace(in.Metric)) {
	case "leads":
		n, err := e.store.LeadCount(ctx, identity.OrgID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("You have %d leads.", n), nil
	case "contacts":
		n, err := e.store.ContactCount(ctx, identity.OrgID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("You have %d contacts.", n), nil
	case "deals":
		n, err := e.store.DealCount(ctx, identity.OrgID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("You have %d deals.", n), nil
	case "open_deals":
		n, value, err := e.store.OpenDeals(ctx, identity.OrgID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("You have %d open deals worth $%.2f.", n, value), nil
	case "won_deals":
		n, value, err := e.store.WonDeals(ctx, identity.OrgID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("You have won %d deals worth $%.2f.", n, value), nil
	case "activities":
		n, err := e.store.ActivityCount(ctx, identity.OrgID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("You have %d recorded activities.", n), nil
	default:
		// Unrecognized metric names fall through to a combined summary.
		stats, err := e.store.Snapshot(ctx, identity.OrgID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(
			"CRM summary: %d leads, %d contacts, %d deals (%d open worth $%.2f, %d won worth $%.2f), %d activities.",
			stats.Leads, stats.Contacts, stats.Deals,
			stats.OpenDeals, stats.OpenValue, stats.WonDeals, stats.WonValue,
			stats.Activities), nil
	}
}

func (e *Executor) createLead(ctx context.Context, identity *crm.Identity, raw json.RawMessage) (string, error) {
	in, err := decodeInput[createLeadInput](e, raw)
	if err != nil {
		return "", err
	}
	lead, err := e.store.CreateLead(ctx, identity.OrgID, identity.UserID, crm.NewLead{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Company:   in.Company,
		Email:     in.Email,
		Phone:     in.Phone,
		Rating:    in.Rating,
	})
	if err != nil {
		return "", err
	}
	if lead.Company != "" {
		return fmt.Sprintf("Created lead %s %s (%s).", lead.FirstName, lead.LastName, lead.Company), nil
	}
	return fmt.Sprintf("Created lead %s %s.", lead.FirstName, lead.LastName), nil
}

func (e *Executor) navigate(_ context.Context, _ *crm.Identity, raw json.RawMessage) (string, error) {
	in, err := decodeInput[navigateInput](e, raw)
	if err != nil {
		return "", err
	}
	path, ok := pagePaths[strings.ToLower(strings.TrimSpace(in.Page))]
	if !ok {
		path = homePath
	}
	return "Navigate to: " + path, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
