package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.AppURL != "http://localhost:3005" {
		t.Fatalf("AppURL = %q; want %q", cfg.AppURL, "http://localhost:3005")
	}
	if cfg.TokenPath != "/token/token-7" {
		t.Fatalf("TokenPath = %q; want %q", cfg.TokenPath, "/token/token-7")
	}
	if cfg.CDPPort != 9222 {
		t.Fatalf("CDPPort = %d; want 9222", cfg.CDPPort)
	}
	if !cfg.LaunchBrowser {
		t.Fatal("LaunchBrowser = false; want true")
	}
	if cfg.EvalTimeoutMS != 5000 {
		t.Fatalf("EvalTimeoutMS = %d; want 5000", cfg.EvalTimeoutMS)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CHARTPROBE_APP_URL", "http://localhost:8080")
	t.Setenv("CHARTPROBE_TOKEN_PATH", "/token/abc")
	t.Setenv("CHARTPROBE_CDP_PORT", "9333")
	t.Setenv("CHARTPROBE_HEADLESS", "true")
	t.Setenv("CHARTPROBE_LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AppURL != "http://localhost:8080" {
		t.Fatalf("AppURL = %q; want %q", cfg.AppURL, "http://localhost:8080")
	}
	if cfg.CDPPort != 9333 {
		t.Fatalf("CDPPort = %d; want 9333", cfg.CDPPort)
	}
	if !cfg.Headless {
		t.Fatal("Headless = false; want true")
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q; want %q", cfg.LogLevel, "debug")
	}
}

func TestLoadFloorsTimeouts(t *testing.T) {
	t.Setenv("CHARTPROBE_EVAL_TIMEOUT_MS", "10")
	t.Setenv("CHARTPROBE_READY_TIMEOUT_MS", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.EvalTimeoutMS != 1000 {
		t.Fatalf("EvalTimeoutMS = %d; want floor 1000", cfg.EvalTimeoutMS)
	}
	if cfg.ReadyTimeoutMS != 1000 {
		t.Fatalf("ReadyTimeoutMS = %d; want floor 1000", cfg.ReadyTimeoutMS)
	}
}

func TestTargetURL(t *testing.T) {
	tests := []struct {
		name      string
		appURL    string
		tokenPath string
		want      string
	}{
		{"default", "http://localhost:3005", "/token/token-7", "http://localhost:3005/token/token-7"},
		{"trailing slash on base", "http://localhost:3005/", "/token/token-7", "http://localhost:3005/token/token-7"},
		{"no leading slash on path", "http://localhost:3005", "token/token-7", "http://localhost:3005/token/token-7"},
		{"empty path", "http://localhost:3005", "", "http://localhost:3005"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{AppURL: tt.appURL, TokenPath: tt.tokenPath}
			if got := cfg.TargetURL(); got != tt.want {
				t.Fatalf("TargetURL() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestCDPURL(t *testing.T) {
	cfg := &Config{CDPAddress: "127.0.0.1", CDPPort: 9222}
	if got, want := cfg.CDPURL(), "http://127.0.0.1:9222"; got != want {
		t.Fatalf("CDPURL() = %q; want %q", got, want)
	}
}
