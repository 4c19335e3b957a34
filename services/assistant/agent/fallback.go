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

import "strings"

// fallbackRule pairs message keywords with a canned reply. Rules are
// evaluated in order and the first match wins.
type fallbackRule struct {
	keywords []string
	reply    string
}

var fallbackRules = []fallbackRule{
	{
		keywords: []string{"lead"},
		reply:    "You can review and qualify your sales leads on the [Leads page](/leads).",
	},
	{
		keywords: []string{"deal"},
		reply:    "You can track your pipeline and deal stages on the [Deals page](/deals).",
	},
	{
		keywords: []string{"contact"},
		reply:    "You can browse and manage your contacts on the [Contacts page](/contacts).",
	},
	{
		keywords: []string{"mail", "email"},
		reply:    "You can read and send email from the [Mail page](/mail).",
	},
	{
		keywords: []string{"calendar"},
		reply:    "You can see upcoming meetings on the [Calendar page](/calendar).",
	},
	{
		keywords: []string{"report"},
		reply:    "You can find charts and exports on the [Reports page](/reports).",
	},
	{
		keywords: []string{"setting"},
		reply:    "You can change your workspace configuration on the [Settings page](/settings).",
	},
	{
		keywords: []string{"activit"},
		reply:    "You can review calls, emails, and tasks on the [Activities page](/activities).",
	},
	{
		keywords: []string{"dial", "phone", "call"},
		reply:    "You can place calls from the [Dialer page](/dialer).",
	},
	{
		keywords: []string{"product"},
		reply:    "You can manage your catalog on the [Products page](/products).",
	},
	{
		keywords: []string{"home", "dashboard"},
		reply:    "Your overview lives on the [Dashboard](/).",
	},
}

var greetingWords = []string{"hello", "hi", "hey", "howdy", "greetings"}

const fallbackDefault = "I can help you find your way around the CRM. " +
	"Try asking about leads, deals, contacts, mail, your calendar, or reports."

const fallbackGreeting = "Hello! Ask me about your leads, deals, or contacts " +
	"and I'll point you to the right page."

// FallbackReply answers a message without a model, by keyword matching.
//
// Description:
//
//	Lower-cases the message and tests the fixed rule list in priority
//	order; the first keyword hit wins. Greetings are matched on whole
//	words after the domain rules. Anything else gets a generic
//	onboarding reply. Deterministic for a given message; performs no
//	store or network access.
func FallbackReply(message string) string {
	lowered := strings.ToLower(message)

	for _, rule := range fallbackRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.reply
			}
		}
	}

	for _, word := range strings.FieldsFunc(lowered, func(r rune) bool {
		return !('a' <= r && r <= 'z')
	}) {
		for _, greeting := range greetingWords {
			if word == greeting {
				return fallbackGreeting
			}
		}
	}

	return fallbackDefault
}
