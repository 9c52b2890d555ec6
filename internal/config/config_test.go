package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: test-secret\n")

	cfg, err := load(path)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Ledger.DefaultCategory != "Sueldo" {
		t.Errorf("Ledger.DefaultCategory = %q, want Sueldo", cfg.Ledger.DefaultCategory)
	}
	if len(cfg.Ledger.SystemCategories) != 6 {
		t.Errorf("len(SystemCategories) = %d, want 6", len(cfg.Ledger.SystemCategories))
	}
	if cfg.Redis.Addr != "" || cfg.AMQP.URL != "" {
		t.Errorf("redis/amqp should be disabled by default, got %q / %q", cfg.Redis.Addr, cfg.AMQP.URL)
	}
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9100
database:
  driver: postgres
  dsn: postgres://ledger@localhost/ledger
jwt:
  secret: s3cret
  expire_hours: 2
ledger:
  default_category: Freelance
  system_categories: [Freelance, Salud]
`)

	cfg, err := load(path)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.DSN == "" {
		t.Errorf("Database = %+v, want postgres with dsn", cfg.Database)
	}
	if cfg.JWT.ExpireHours != 2 {
		t.Errorf("JWT.ExpireHours = %d, want 2", cfg.JWT.ExpireHours)
	}
	if cfg.Ledger.DefaultCategory != "Freelance" {
		t.Errorf("Ledger.DefaultCategory = %q, want Freelance", cfg.Ledger.DefaultCategory)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: from-file\n")
	t.Setenv("FINPRO_SERVER_PORT", "9300")
	t.Setenv("FINPRO_JWT_SECRET", "from-env")

	cfg, err := load(path)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.Server.Port != 9300 {
		t.Errorf("Server.Port = %d, want 9300", cfg.Server.Port)
	}
	if cfg.JWT.Secret != "from-env" {
		t.Errorf("JWT.Secret = %q, want from-env", cfg.JWT.Secret)
	}
}

func TestLoad_Invalid(t *testing.T) {
	testCases := map[string]string{
		"missing secret":          "server:\n  port: 1\n",
		"unknown driver":          "jwt:\n  secret: x\ndatabase:\n  driver: oracle\n",
		"postgres no dsn":         "jwt:\n  secret: x\ndatabase:\n  driver: postgres\n",
		"empty default cat":       "jwt:\n  secret: x\nledger:\n  default_category: \"\"\n",
		"default cat not seeded":  "jwt:\n  secret: x\nledger:\n  default_category: Salario\n",
		"default cat not in list": "jwt:\n  secret: x\nledger:\n  default_category: Ocio\n  system_categories: [Sueldo, Alquiler]\n",
	}

	for name, body := range testCases {
		t.Run(name, func(t *testing.T) {
			if _, err := load(writeConfig(t, body)); err == nil {
				t.Errorf("load() error = nil, want error")
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("load() with missing explicit file error = nil, want error")
	}
}
