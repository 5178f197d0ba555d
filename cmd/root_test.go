package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"generate": false, "import": false, "export": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Expected command %s to be registered", name)
		}
	}
}

func TestGenerateThenExport(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	outDir := t.TempDir()

	rootCmd.SetArgs([]string{"generate",
		"--data-dir", dataDir,
		"--users", "20", "--theses", "10", "--submissions", "20",
		"--reviews", "20", "--defenses", "5", "--archived", "3",
		"--seed", "7", "--log-level", "error",
	})
	if err := Execute(); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	for _, name := range []string{"users.json", "theses.json", "manifest.json"} {
		if _, err := os.Stat(filepath.Join(dataDir, name)); err != nil {
			t.Errorf("Expected %s to be written: %v", name, err)
		}
	}

	rootCmd.SetArgs([]string{"export", "--csv", "--out", outDir, "--data-dir", dataDir, "--log-level", "error"})
	if err := Execute(); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(outDir, "snapshot_*_csv", "users.csv"))
	if len(matches) != 1 {
		t.Errorf("Expected one users.csv in the snapshot, got %v", matches)
	}
}

func TestGenerateRejectsUnknownFormat(t *testing.T) {
	rootCmd.SetArgs([]string{"generate", "--data-dir", t.TempDir(), "--format", "xml", "--log-level", "error"})
	defer generateCmd.Flags().Set("format", "json")
	if err := Execute(); err == nil {
		t.Error("Expected an invalid config error")
	}
}
