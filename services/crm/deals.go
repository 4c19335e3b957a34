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

// SearchDeals returns deals for the organization matching the filter,
// newest first, capped at limit rows.
//
// Query is an inclusive substring match against the deal name. Stage is
// an exact-match filter. Both are optional.
func (s *Store) SearchDeals(ctx context.Context, orgID string, filter DealFilter, limit int) ([]Deal, error) {
	if limit < 1 {
		limit = 1
	}

	stmt := `SELECT id, org_id, name, stage, amount, created_at
		FROM deals WHERE org_id = ?`
	args := []any{orgID}

	if filter.Query != "" {
		stmt += ` AND name LIKE ?`
		args = append(args, "%"+filter.Query+"%")
	}
	if filter.Stage != "" {
		stmt += ` AND stage = ?`
		args = append(args, filter.Stage)
	}
	stmt += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("crm: failed to search deals: %w", err)
	}
	defer rows.Close()

	deals := []Deal{}
	for rows.Next() {
		var d Deal
		if err := rows.Scan(&d.ID, &d.OrgID, &d.Name, &d.Stage, &d.Amount, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("crm: failed to scan deal row: %w", err)
		}
		deals = append(deals, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("crm: deal row iteration failed: %w", err)
	}
	return deals, nil
}
