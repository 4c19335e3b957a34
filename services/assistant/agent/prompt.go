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
	"fmt"

	"github.com/AleutianAI/AleutianCRM/services/crm"
)

// SystemPrompt builds the per-request system prompt, embedding the
// resolved user and organization display names.
func SystemPrompt(identity *crm.Identity) string {
	return fmt.Sprintf(`You are the in-app assistant for a CRM application. You are helping %s at %s.

You can search leads, contacts, and deals, report aggregate stats, create new leads, and navigate the user to pages of the application. All data you see is scoped to the user's organization.

Guidelines:
- Use the provided tools to answer questions about CRM data; do not invent records.
- When a search returns results, summarize them naturally instead of repeating the raw list verbatim.
- When the user asks to go somewhere, use the navigate tool.
- Keep replies short and conversational.`, identity.UserName, identity.OrgName)
}
