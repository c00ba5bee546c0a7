package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeCommand(t *testing.T) {
	classes := dayOf("cell-non-scheduled")
	classes[0] = "cell-scheduled"
	classes[1] = "cell-first-half"

	path := filepath.Join(t.TempDir(), "table.html")
	if err := os.WriteFile(path, []byte(buildTable(classes)), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"decode", path})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("decode command error = %v", err)
	}

	if got := strings.TrimSpace(out.String()); got != "Світла не буде: 00:00–01:30" {
		t.Errorf("decode output = %q", got)
	}
}
