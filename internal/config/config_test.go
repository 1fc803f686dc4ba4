package config

import (
	"os"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FITSYNC_CLIENT_ID", "23ABCD")
	t.Setenv("FITSYNC_CLIENT_SECRET", "shhh")
	t.Setenv("FITSYNC_REDIRECT_URI", "https://example.test/callback")
	t.Setenv("FITSYNC_SCOPES", "sleep activity heartrate")
	t.Setenv("FITSYNC_POSTGRES_DSN", "postgres://localhost/fitsync")
	t.Setenv("FITSYNC_CRON_IMPORT", "0 2 * * *")
}

func TestConfigLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	_ = os.Unsetenv("FITSYNC_HTTP_PORT")
	_ = os.Unsetenv("FITSYNC_IMPORT_DAYS_PRIOR")
	_ = os.Unsetenv("FITSYNC_IMPORT_NUM_DAYS")
	_ = os.Unsetenv("FITSYNC_REQUEST_TIMEOUT")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPPort != 3000 {
		t.Fatalf("unexpected default http port: %d", cfg.HTTPPort)
	}
	if cfg.DaysPrior != 1 || cfg.NumDays != 2 {
		t.Fatalf("unexpected default import window: prior=%d num=%d", cfg.DaysPrior, cfg.NumDays)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("unexpected default request timeout: %s", cfg.RequestTimeout)
	}
	if cfg.APIBaseURL != "https://api.fitbit.com" {
		t.Fatalf("unexpected default api base url: %s", cfg.APIBaseURL)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected default log level: %q", cfg.LogLevel)
	}
}

func TestConfigLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	_ = os.Unsetenv("FITSYNC_CLIENT_ID")

	if _, err := New(); err == nil {
		t.Fatal("expected error when CLIENT_ID unset")
	}
}

func TestConfigLoad_WindowOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FITSYNC_IMPORT_DAYS_PRIOR", "0")
	t.Setenv("FITSYNC_IMPORT_NUM_DAYS", "5")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DaysPrior != 0 || cfg.NumDays != 5 {
		t.Fatalf("window override failed: prior=%d num=%d", cfg.DaysPrior, cfg.NumDays)
	}
}

func TestConfigValidate_RejectsBadWindow(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FITSYNC_IMPORT_NUM_DAYS", "0")

	if _, err := New(); err == nil {
		t.Fatal("expected error for IMPORT_NUM_DAYS=0")
	}
}
