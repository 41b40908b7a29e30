package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shamank/ocean-c2d-go/pkg/config"
)

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv(config.EnvNodeURI, "http://env-node:8545")
	t.Setenv(config.EnvProviderURL, "http://env-provider:8030")
	t.Setenv(config.EnvDebug, "false")

	saved := flags
	t.Cleanup(func() { flags = saved })
	flags.envFile = filepath.Join(t.TempDir(), "absent.env")
	flags.nodeURI = "http://flag-node:8545"
	flags.debug = true

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.NodeURI != "http://flag-node:8545" {
		t.Fatalf("NodeURI = %q; want flag value", cfg.NodeURI)
	}
	if cfg.ProviderURL != "http://env-provider:8030" {
		t.Fatalf("ProviderURL = %q; want env value", cfg.ProviderURL)
	}
	if !cfg.Debug {
		t.Fatal("debug flag not applied")
	}
}

func TestLoadConfig_FileUnderEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c2d.yaml")
	content := "node_uri: http://file-node:8545\naquarius_url: http://file-aquarius:5000\nprovider_rps: 2.5\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvNodeURI, "http://env-node:8545")
	t.Setenv(config.EnvAquariusURL, "")

	saved := flags
	t.Cleanup(func() { flags = saved })
	flags.configFile = path
	flags.envFile = filepath.Join(dir, "absent.env")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.NodeURI != "http://env-node:8545" {
		t.Fatalf("NodeURI = %q; want env value", cfg.NodeURI)
	}
	if cfg.AquariusURL != "http://file-aquarius:5000" {
		t.Fatalf("AquariusURL = %q; want file value", cfg.AquariusURL)
	}
	if cfg.ProviderRPS != 2.5 {
		t.Fatalf("ProviderRPS = %v; want 2.5", cfg.ProviderRPS)
	}

	flags.configFile = filepath.Join(dir, "missing.yaml")
	if _, err := loadConfig(); !errors.Is(err, config.ErrConfigFile) {
		t.Fatalf("err = %v; want ErrConfigFile", err)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"run", "envs", "status", "result", "health"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("command %q not registered: %v", name, err)
		}
	}
}

func TestStatusRequiresJob(t *testing.T) {
	rootCmd.SetArgs([]string{"status"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "job") {
		t.Fatalf("err = %v; want missing --job", err)
	}
}
