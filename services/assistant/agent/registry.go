// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package agent implements the conversational assistant: the tool
// catalogue exposed to the model, the executor that runs requested
// tools against the CRM store, the degraded-mode keyword responder,
// and the orchestration loop that ties them together.
package agent

import "github.com/AleutianAI/AleutianCRM/services/llm"

// toolCatalogue is the fixed set of tools offered to the model. It is
// passed verbatim on every model call and never mutated at runtime.
var toolCatalogue = []llm.ToolDef{
	{
		Name:        "search_leads",
		Description: "Search the organization's sales leads by name, company, or email. Optionally filter by status or rating.",
		InputSchema: llm.ToolParameters{
			Type: "object",
			Properties: map[string]llm.ToolParamDef{
				"query": {
					Type:        "string",
					Description: "Substring to match against lead name, company, or email.",
				},
				"status": {
					Type:        "string",
					Description: "Filter by lead status.",
					Enum:        []any{"New", "Contacted", "Qualified", "Unqualified"},
				},
				"rating": {
					Type:        "string",
					Description: "Filter by lead rating.",
					Enum:        []any{"Hot", "Warm", "Cold"},
				},
			},
		},
	},
	{
		Name:        "search_contacts",
		Description: "Search the organization's contacts by name, company, or email.",
		InputSchema: llm.ToolParameters{
			Type: "object",
			Properties: map[string]llm.ToolParamDef{
				"query": {
					Type:        "string",
					Description: "Substring to match against contact name, company, or email.",
				},
			},
		},
	},
	{
		Name:        "search_deals",
		Description: "Search the organization's deals by name. Optionally filter by pipeline stage.",
		InputSchema: llm.ToolParameters{
			Type: "object",
			Properties: map[string]llm.ToolParamDef{
				"query": {
					Type:        "string",
					Description: "Substring to match against the deal name.",
				},
				"stage": {
					Type:        "string",
					Description: "Filter by pipeline stage.",
					Enum:        []any{"Prospecting", "Qualification", "Proposal", "Negotiation", "Closed Won", "Closed Lost"},
				},
			},
		},
	},
	{
		Name:        "get_stats",
		Description: "Get aggregate CRM numbers for the organization, such as lead, contact, deal, or activity counts and pipeline value.",
		InputSchema: llm.ToolParameters{
			Type: "object",
			Properties: map[string]llm.ToolParamDef{
				"metric": {
					Type:        "string",
					Description: "Which metric to report: leads, contacts, deals, open_deals, won_deals, or activities. Any other value returns a combined summary.",
				},
			},
			Required: []string{"metric"},
		},
	},
	{
		Name:        "create_lead",
		Description: "Create a new sales lead in the organization.",
		InputSchema: llm.ToolParameters{
			Type: "object",
			Properties: map[string]llm.ToolParamDef{
				"first_name": {
					Type:        "string",
					Description: "Lead first name.",
				},
				"last_name": {
					Type:        "string",
					Description: "Lead last name.",
				},
				"company": {
					Type:        "string",
					Description: "Company the lead works for.",
				},
				"email": {
					Type:        "string",
					Description: "Lead email address.",
				},
				"phone": {
					Type:        "string",
					Description: "Lead phone number.",
				},
				"rating": {
					Type:        "string",
					Description: "Initial lead rating.",
					Enum:        []any{"Hot", "Warm", "Cold"},
				},
			},
			Required: []string{"first_name", "last_name"},
		},
	},
	{
		Name:        "navigate",
		Description: "Send the user to a page of the CRM application, such as leads, contacts, deals, reports, or settings.",
		InputSchema: llm.ToolParameters{
			Type: "object",
			Properties: map[string]llm.ToolParamDef{
				"page": {
					Type:        "string",
					Description: "The page to open. Unknown pages fall back to the dashboard.",
				},
			},
			Required: []string{"page"},
		},
	},
}

// ToolCatalogue returns the tool definitions offered to the model.
func ToolCatalogue() []llm.ToolDef {
	return toolCatalogue
}
