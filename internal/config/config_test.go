package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	v := viper.New()
	v.AddConfigPath(t.TempDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	cfg, err := load(v)
	if err != nil {
		t.Fatalf("load defaults failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("default port want 8080 got %s", cfg.Server.Port)
	}
	if cfg.Shipping.FlatRate != "5.99" {
		t.Fatalf("default flat rate want 5.99 got %s", cfg.Shipping.FlatRate)
	}
	if len(cfg.Shipping.Tiers) != 3 {
		t.Fatalf("expected 3 default shipping tiers, got %d", len(cfg.Shipping.Tiers))
	}
	if cfg.Shipping.Tiers[0].Code != "standard" || cfg.Shipping.Tiers[0].Rate != "5.99" {
		t.Fatalf("unexpected first tier: %+v", cfg.Shipping.Tiers[0])
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Fatalf("default storage driver want sqlite got %s", cfg.Storage.Driver)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
server:
  port: "9090"
storage:
  driver: memory
shipping:
  flat_rate: "4.50"
  tiers:
    - code: pickup
      label: Store Pickup
      rate: "0"
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), content, 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	cfg, err := load(v)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("port want 9090 got %s", cfg.Server.Port)
	}
	if cfg.Storage.Driver != "memory" {
		t.Fatalf("storage driver want memory got %s", cfg.Storage.Driver)
	}
	if cfg.Shipping.FlatRate != "4.50" {
		t.Fatalf("flat rate want 4.50 got %s", cfg.Shipping.FlatRate)
	}
	if len(cfg.Shipping.Tiers) != 1 || cfg.Shipping.Tiers[0].Code != "pickup" {
		t.Fatalf("unexpected tiers: %+v", cfg.Shipping.Tiers)
	}
}
