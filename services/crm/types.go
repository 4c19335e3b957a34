// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package crm provides the SQLite-backed data store for CRM entities.
// All reads and writes are scoped to an organization identifier; the
// store enforces no cross-organization access on its own tables.
package crm

import "time"

// Lead is a sales lead owned by an organization.
type Lead struct {
	ID        string
	OrgID     string
	OwnerID   string
	FirstName string
	LastName  string
	Company   string
	Email     string
	Phone     string
	Status    string
	Rating    string
	CreatedAt time.Time
}

// Contact is a person record within an organization.
type Contact struct {
	ID        string
	OrgID     string
	FirstName string
	LastName  string
	Company   string
	Email     string
	Phone     string
	CreatedAt time.Time
}

// Deal is a sales opportunity within an organization.
type Deal struct {
	ID        string
	OrgID     string
	Name      string
	Stage     string
	Amount    float64
	CreatedAt time.Time
}

// LeadFilter narrows a lead search. Empty fields are ignored.
type LeadFilter struct {
	Query  string
	Status string
	Rating string
}

// DealFilter narrows a deal search. Empty fields are ignored.
type DealFilter struct {
	Query string
	Stage string
}

// NewLead carries the caller-supplied fields for a lead insert.
// FirstName and LastName are required; the rest are optional.
type NewLead struct {
	FirstName string
	LastName  string
	Company   string
	Email     string
	Phone     string
	Rating    string
}

// Identity is the resolved display context for one request.
type Identity struct {
	OrgID    string
	UserID   string
	UserName string
	OrgName  string
}

// Stats is a point-in-time aggregate snapshot for one organization.
type Stats struct {
	Leads      int
	Contacts   int
	Deals      int
	OpenDeals  int
	OpenValue  float64
	WonDeals   int
	WonValue   float64
	Activities int
}
