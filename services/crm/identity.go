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
	"database/sql"
	"errors"
	"fmt"
)

const (
	defaultUserName = "User"
	defaultOrgName  = "your organization"
)

// ResolveIdentity looks up the display names for a caller's
// organization and user identifiers.
//
// Description:
//
//	Resolved once per request before the assistant runs. Unknown
//	identifiers are not an error: the identifiers are kept as-is and
//	generic display names are substituted, so the assistant still works
//	for callers whose rows have not been provisioned yet.
//
// Outputs:
//   - *Identity: Always non-nil on success.
//   - error: Non-nil only on a real query failure, never for missing
//     rows.
func (s *Store) ResolveIdentity(ctx context.Context, orgID, userID string) (*Identity, error) {
	identity := &Identity{
		OrgID:    orgID,
		UserID:   userID,
		UserName: defaultUserName,
		OrgName:  defaultOrgName,
	}

	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM organizations WHERE id = ?`, orgID).Scan(&identity.OrgName)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("crm: failed to resolve organization %s: %w", orgID, err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT name FROM users WHERE id = ? AND org_id = ?`, userID, orgID).Scan(&identity.UserName)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("crm: failed to resolve user %s: %w", userID, err)
	}

	return identity, nil
}
