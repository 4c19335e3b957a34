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

const (
	stageWon  = "Closed Won"
	stageLost = "Closed Lost"
)

func (s *Store) countRows(ctx context.Context, table, orgID string) (int, error) {
	// table is always one of our fixed table names, never caller input.
	var n int
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE org_id = ?", table), orgID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("crm: failed to count %s: %w", table, err)
	}
	return n, nil
}

// LeadCount returns the number of leads in the organization.
func (s *Store) LeadCount(ctx context.Context, orgID string) (int, error) {
	return s.countRows(ctx, "leads", orgID)
}

// ContactCount returns the number of contacts in the organization.
func (s *Store) ContactCount(ctx context.Context, orgID string) (int, error) {
	return s.countRows(ctx, "contacts", orgID)
}

// DealCount returns the number of deals in the organization.
func (s *Store) DealCount(ctx context.Context, orgID string) (int, error) {
	return s.countRows(ctx, "deals", orgID)
}

// ActivityCount returns the number of recorded activities in the
// organization.
func (s *Store) ActivityCount(ctx context.Context, orgID string) (int, error) {
	return s.countRows(ctx, "activities", orgID)
}

// OpenDeals returns the count and total value of deals that are not in
// a closed stage.
func (s *Store) OpenDeals(ctx context.Context, orgID string) (int, float64, error) {
	var count int
	var value float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(amount), 0) FROM deals
		 WHERE org_id = ? AND stage NOT IN (?, ?)`,
		orgID, stageWon, stageLost).Scan(&count, &value)
	if err != nil {
		return 0, 0, fmt.Errorf("crm: failed to aggregate open deals: %w", err)
	}
	return count, value, nil
}

// WonDeals returns the count and total value of deals in the Closed Won
// stage.
func (s *Store) WonDeals(ctx context.Context, orgID string) (int, float64, error) {
	var count int
	var value float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(amount), 0) FROM deals
		 WHERE org_id = ? AND stage = ?`,
		orgID, stageWon).Scan(&count, &value)
	if err != nil {
		return 0, 0, fmt.Errorf("crm: failed to aggregate won deals: %w", err)
	}
	return count, value, nil
}

// Snapshot returns the combined aggregate picture for the organization.
//
// Description:
//
//	Runs the individual count and sum aggregates and assembles them into
//	one Stats value. Used for the combined summary when a caller asks
//	for a metric the store does not recognize individually.
//
// Outputs:
//   - *Stats: All counters populated.
//   - error: The first aggregate failure encountered.
func (s *Store) Snapshot(ctx context.Context, orgID string) (*Stats, error) {
	var (
		stats Stats
		err   error
	)
	if stats.Leads, err = s.LeadCount(ctx, orgID); err != nil {
		return nil, err
	}
	if stats.Contacts, err = s.ContactCount(ctx, orgID); err != nil {
		return nil, err
	}
	if stats.Deals, err = s.DealCount(ctx, orgID); err != nil {
		return nil, err
	}
	if stats.OpenDeals, stats.OpenValue, err = s.OpenDeals(ctx, orgID); err != nil {
		return nil, err
	}
	if stats.WonDeals, stats.WonValue, err = s.WonDeals(ctx, orgID); err != nil {
		return nil, err
	}
	if stats.Activities, err = s.ActivityCount(ctx, orgID); err != nil {
		return nil, err
	}
	return &stats, nil
}
