package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MIAT_CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DBDriver != "mysql" {
		t.Fatalf("DBDriver = %q, want mysql", cfg.DBDriver)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.RabbitMQQueue != "miat.response.events" {
		t.Fatalf("RabbitMQQueue = %q", cfg.RabbitMQQueue)
	}
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "miat.yaml")
	content := []byte("db_driver: postgres\ndb_host: db.internal\nport: \"9000\"\njwt_access_expiry: 30m\nminio_use_ssl: true\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MIAT_CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("DB_HOST", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DBDriver != "postgres" || cfg.DBHost != "db.internal" {
		t.Fatalf("file values not applied: driver=%q host=%q", cfg.DBDriver, cfg.DBHost)
	}
	if cfg.Port != "9100" {
		t.Fatalf("Port = %q, env should win over file", cfg.Port)
	}
	if cfg.JWTAccessExpiry != 30*time.Minute {
		t.Fatalf("JWTAccessExpiry = %v", cfg.JWTAccessExpiry)
	}
	if !cfg.MinioUseSSL {
		t.Fatalf("MinioUseSSL = false, want true")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("LoadFile() expected error for missing file")
	}
}

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "mysql",
			cfg:  Config{DBDriver: "mysql", DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "3306", DBName: "d"},
			want: "u:p@tcp(h:3306)/d?charset=utf8mb4&parseTime=True&loc=UTC",
		},
		{
			name: "postgres",
			cfg:  Config{DBDriver: "postgres", DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"},
			want: "host=h user=u password=p dbname=d port=5432 sslmode=disable TimeZone=UTC",
		},
		{
			name: "sqlite",
			cfg:  Config{DBDriver: "sqlite", DBName: "miat.db"},
			want: "miat.db",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.DSN(); got != tt.want {
				t.Fatalf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}
