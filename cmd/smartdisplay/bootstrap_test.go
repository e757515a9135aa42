package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mohammad-safakhou/smartdisplay/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "smartdisplay.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBootstrapDegradedWithoutPanel(t *testing.T) {
	dataDir := t.TempDir()
	path := writeConfig(t, "general:\n  data_dir: "+dataDir+"\npanel:\n  driver: none\n")

	d, err := bootstrap(context.Background(), path)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer d.close()

	if d.app.Sink.HasDriver() {
		t.Fatalf("expected no panel driver")
	}
	if got, want := d.app.Sink.PreviewPath(), filepath.Join(dataDir, "preview.png"); got != want {
		t.Fatalf("preview path = %q, want %q", got, want)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "config", "settings.yaml")); err != nil {
		t.Fatalf("settings not initialised: %v", err)
	}
	if got := d.listenAddr(); got != "0.0.0.0:8080" {
		t.Fatalf("listenAddr = %q", got)
	}
}

func TestBootstrapUnknownPanelFallsBack(t *testing.T) {
	path := writeConfig(t, "general:\n  data_dir: "+t.TempDir()+"\nserver:\n  address: 127.0.0.1:9999\npanel:\n  driver: inky\n")
	d, err := bootstrap(context.Background(), path)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer d.close()
	if d.app.Sink.HasDriver() {
		t.Fatalf("unknown driver should leave the sink in preview mode")
	}
	if d.listenAddr() != "127.0.0.1:9999" {
		t.Fatalf("listenAddr = %q", d.listenAddr())
	}
}

func TestBootstrapBadConfig(t *testing.T) {
	path := writeConfig(t, "storage:\n  redis:\n    host: cache\n    port: \"\"\n")
	if _, err := bootstrap(context.Background(), path); err == nil {
		t.Fatalf("expected config validation error")
	}
}

func TestUnderDataDir(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{General: config.GeneralConfig{DataDir: "/data"}}
	tests := []struct{ in, want string }{
		{"", ""},
		{"/abs/p.png", "/abs/p.png"},
		{"preview.png", filepath.Join("/data", "preview.png")},
		{"templates/", filepath.Join("/data", "templates")},
	}
	for _, tt := range tests {
		if got := underDataDir(cfg, tt.in); got != tt.want {
			t.Errorf("underDataDir(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
