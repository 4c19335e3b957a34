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
)

// SearchContacts returns contacts for the organization matching query,
// newest first, capped at limit rows.
//
// Query is an inclusive substring match against first name, last name,
// company, and email; an empty query returns the newest contacts.
func (s *Store) SearchContacts(ctx context.Context, orgID, query string, limit int) ([]Contact, error) {
	if limit < 1 {
		limit = 1
	}

	stmt := `SELECT id, org_id, first_name, last_name, company, email, phone, created_at
		FROM contacts WHERE org_id = ?`
	args := []any{orgID}

	if query != "" {
		stmt += ` AND (first_name LIKE ? OR last_name LIKE ? OR company LIKE ? OR email LIKE ?)`
		pattern := "%" + query + "%"
		args = append(args, pattern, pattern, pattern, pattern)
	}
	stmt += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("crm: failed to search contacts: %w", err)
	}
	defer rows.Close()

	contacts := []Contact{}
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.OrgID, &c.FirstName, &c.LastName,
			&c.Company, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("crm: failed to scan contact row: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("crm: contact row iteration failed: %w", err)
	}
	return contacts, nil
}
