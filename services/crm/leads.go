// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SearchLeads returns leads for the organization matching the filter,
// newest first, capped at limit rows.
//
// Description:
//
//	Query is an inclusive substring match against first name, last name,
//	company, and email. Status and Rating are exact-match filters. All
//	filter fields are optional; an empty filter returns the newest leads.
//
// Inputs:
//   - ctx: Request-scoped context.
//   - orgID: Organization scope. Required.
//   - filter: Optional narrowing criteria.
//   - limit: Maximum rows to return. Values < 1 are treated as 1.
//
// Outputs:
//   - []Lead: Matching rows, possibly empty. Never nil on success.
//   - error: Non-nil on query failure.
func (s *Store) SearchLeads(ctx context.Context, orgID string, filter LeadFilter, limit int) ([]Lead, error) {
	if limit < 1 {
		limit = 1
	}

	query := `SELECT id, org_id, owner_id, first_name, last_name, company, email, phone, status, rating, created_at
		FROM leads WHERE org_id = ?`
	args := []any{orgID}

	if filter.Query != "" {
		query += ` AND (first_name LIKE ? OR last_name LIKE ? OR company LIKE ? OR email LIKE ?)`
		pattern := "%" + filter.Query + "%"
		args = append(args, pattern, pattern, pattern, pattern)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.Rating != "" {
		query += ` AND rating = ?`
		args = append(args, filter.Rating)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("crm: failed to search leads: %w", err)
	}
	defer rows.Close()

	leads := []Lead{}
	for rows.Next() {
		var l Lead
		if err := rows.Scan(&l.ID, &l.OrgID, &l.OwnerID, &l.FirstName, &l.LastName,
			&l.Company, &l.Email, &l.Phone, &l.Status, &l.Rating, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("crm: failed to scan lead row: %w", err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("crm: lead row iteration failed: %w", err)
	}
	return leads, nil
}

// CreateLead inserts a new lead for the organization and returns the
// stored record.
//
// Description:
//
//	Generates a fresh UUID and timestamp. The new lead starts in status
//	"New". This is the only write the assistant tooling performs.
//
// Inputs:
//   - ctx: Request-scoped context.
//   - orgID: Organization scope. Required.
//   - ownerID: Acting user recorded as the lead owner. May be empty.
//   - in: Caller-supplied fields. FirstName and LastName must be
//     validated by the caller before this is reached.
//
// Outputs:
//   - *Lead: The inserted record including generated ID and timestamp.
//   - error: Non-nil on insert failure.
func (s *Store) CreateLead(ctx context.Context, orgID, ownerID string, in NewLead) (*Lead, error) {
	lead := &Lead{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		OwnerID:   ownerID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Company:   in.Company,
		Email:     in.Email,
		Phone:     in.Phone,
		Status:    "New",
		Rating:    in.Rating,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leads (id, org_id, owner_id, first_name, last_name, company, email, phone, status, rating, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID, lead.OrgID, lead.OwnerID, lead.FirstName, lead.LastName,
		lead.Company, lead.Email, lead.Phone, lead.Status, lead.Rating, lead.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("crm: failed to insert lead: %w", err)
	}
	return lead, nil
}
