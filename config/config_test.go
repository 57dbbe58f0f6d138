package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	if cfg.DBBackend != "goleveldb" {
		t.Fatalf("wrong default backend %s", cfg.DBBackend)
	}
	if cfg.KeepLastStates != 120 {
		t.Fatalf("wrong default keep_last_states %d", cfg.KeepLastStates)
	}
	if !strings.HasPrefix(cfg.APIListenAddress, "tcp://") {
		t.Fatalf("wrong default api address %s", cfg.APIListenAddress)
	}
}

func TestRootify(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.SetRoot("/tmp/bounty-test")

	if cfg.GenesisFile() != "/tmp/bounty-test/config/genesis.json" {
		t.Fatalf("wrong genesis path %s", cfg.GenesisFile())
	}
	if cfg.DBDir() != "/tmp/bounty-test/data" {
		t.Fatalf("wrong db dir %s", cfg.DBDir())
	}

	cfg.DBPath = "/absolute/data"
	if cfg.DBDir() != "/absolute/data" {
		t.Fatal("absolute paths must pass through untouched")
	}
}

func TestEnsureRootWritesDefaultConfig(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	EnsureRoot(root)

	for _, dir := range []string{"config", "data"} {
		if info, err := os.Stat(filepath.Join(root, dir)); err != nil || !info.IsDir() {
			t.Fatalf("missing %s dir: %v", dir, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(root, "config", "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "keep_last_states") {
		t.Fatal("default config must carry the state retention option")
	}

	// a second run must not overwrite an edited config
	edited := append(data, []byte("\n# local note\n")...)
	if err := os.WriteFile(filepath.Join(root, "config", "config.toml"), edited, 0644); err != nil {
		t.Fatal(err)
	}

	EnsureRoot(root)

	after, err := os.ReadFile(filepath.Join(root, "config", "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(after), "# local note") {
		t.Fatal("existing config must be kept")
	}
}
