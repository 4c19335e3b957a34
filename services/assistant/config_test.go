// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package assistant

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CRM_ADDR", "")
	t.Setenv("CRM_DB_PATH", "")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
	if cfg.Server.RequestTimeout != 60*time.Second {
		t.Errorf("RequestTimeout = %v, want 60s", cfg.Server.RequestTimeout)
	}
	if cfg.Database.Path != "crm.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "crm.db")
	}
}

func TestLoadConfig_File(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CRM_ADDR", "")
	t.Setenv("CRM_DB_PATH", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  addr: \":9000\"\n  request_timeout: 30s\ndatabase:\n  path: /data/crm.db\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %q, want %q", cfg.Server.Addr, ":9000")
	}
	if cfg.Server.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.Server.RequestTimeout)
	}
	if cfg.Database.Path != "/data/crm.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/data/crm.db")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("CRM_DB_PATH", "/tmp/override.db")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Server.Addr != ":3000" {
		t.Errorf("Addr = %q, want PORT override %q", cfg.Server.Addr, ":3000")
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/override.db")
	}

	// A full address wins over the bare port.
	t.Setenv("CRM_ADDR", "127.0.0.1:8443")
	cfg, err = LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:8443" {
		t.Errorf("Addr = %q, want CRM_ADDR to win over PORT", cfg.Server.Addr)
	}
}
