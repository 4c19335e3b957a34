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

// Seed populates an organization with demo data for local development.
//
// Description:
//
//	Creates the organization and user rows (INSERT OR IGNORE, so
//	reseeding an existing org is harmless) plus a small set of leads,
//	contacts, deals, and activities. Entity rows get fresh UUIDs each
//	run, so repeated seeding grows the data set.
func (s *Store) Seed(ctx context.Context, orgID, userID string) error {
	now := time.Now().UTC()

	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO organizations (id, name, created_at) VALUES (?, ?, ?)`,
		orgID, "Aleutian Demo Co", now); err != nil {
		return fmt.Errorf("crm: failed to seed organization: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (id, org_id, name, email, created_at) VALUES (?, ?, ?, ?, ?)`,
		userID, orgID, "Demo User", "demo@example.com", now); err != nil {
		return fmt.Errorf("crm: failed to seed user: %w", err)
	}

	leads := []NewLead{
		{FirstName: "Jane", LastName: "Doe", Company: "Acme Corp", Email: "jane@acme.example", Rating: "Hot"},
		{FirstName: "Raj", LastName: "Patel", Company: "Northwind", Email: "raj@northwind.example", Rating: "Warm"},
		{FirstName: "Mei", LastName: "Chen", Company: "Globex", Email: "mei@globex.example", Rating: "Cold"},
	}
	for _, lead := range leads {
		if _, err := s.CreateLead(ctx, orgID, userID, lead); err != nil {
			return err
		}
	}

	contacts := []Contact{
		{FirstName: "Sam", LastName: "Okafor", Company: "Acme Corp", Email: "sam@acme.example", Phone: "555-0101"},
		{FirstName: "Lena", LastName: "Fischer", Company: "Initech", Email: "lena@initech.example", Phone: "555-0102"},
	}
	for _, c := range contacts {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO contacts (id, org_id, first_name, last_name, company, email, phone, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), orgID, c.FirstName, c.LastName, c.Company, c.Email, c.Phone, now); err != nil {
			return fmt.Errorf("crm: failed to seed contact: %w", err)
		}
	}

	deals := []Deal{
		{Name: "Acme expansion", Stage: "Proposal", Amount: 42000},
		{Name: "Northwind renewal", Stage: "Negotiation", Amount: 18500},
		{Name: "Globex pilot", Stage: "Closed Won", Amount: 9500},
	}
	for _, d := range deals {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO deals (id, org_id, name, stage, amount, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), orgID, d.Name, d.Stage, d.Amount, now); err != nil {
			return fmt.Errorf("crm: failed to seed deal: %w", err)
		}
	}

	activities := []string{"Intro call with Acme", "Sent proposal to Northwind"}
	for _, subject := range activities {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO activities (id, org_id, user_id, type, subject, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), orgID, userID, "call", subject, now); err != nil {
			return fmt.Errorf("crm: failed to seed activity: %w", err)
		}
	}

	return nil
}
