package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewExtractionStatus(t *testing.T) {
	kyiv := time.FixedZone("EEST", 3*60*60)
	now := time.Date(2026, 10, 14, 13, 48, 0, 123456000, kyiv)

	s := NewExtractionStatus(now)

	if s.OK || s.TomorrowTabFound {
		t.Error("new status should not be ok or have the tab found")
	}
	if s.TomorrowDate != nil || s.Text != nil || s.Error != nil {
		t.Error("new status should have null optional fields")
	}
	if s.WhenUTC != "2026-10-14T10:48:00.123456+00:00" {
		t.Errorf("WhenUTC = %q", s.WhenUTC)
	}
}

func TestExtractionStatusTransitions(t *testing.T) {
	s := NewExtractionStatus(time.Now())
	s.Succeed("Графік на завтра: Світло буде весь день.")

	if !s.OK || !s.TomorrowTabFound || s.Error != nil {
		t.Errorf("Succeed() left status %+v", s)
	}
	if s.Message() != "Графік на завтра: Світло буде весь день." {
		t.Errorf("Message() = %q", s.Message())
	}

	s = NewExtractionStatus(time.Now())
	if s.Message() != FallbackText {
		t.Errorf("Message() on fresh status = %q, want fallback", s.Message())
	}

	s.Fail(errors.New("boom"))
	if s.OK {
		t.Error("Fail() should leave ok=false")
	}
	if s.Error == nil || *s.Error != "boom" {
		t.Errorf("Error = %v, want boom", s.Error)
	}
	if s.Message() != FallbackText {
		t.Errorf("Message() after Fail = %q, want fallback", s.Message())
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s := NewExtractionStatus(time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC))
	date := "15.10.26"
	s.TomorrowDate = &date
	s.Succeed("Графік на завтра (15.10.26): Світла не буде: 09:00–09:30")

	if err := WriteArtifacts(dir, "result.txt", "result.json", s.Message(), s); err != nil {
		t.Fatalf("WriteArtifacts() error = %v", err)
	}

	text, err := os.ReadFile(filepath.Join(dir, "result.txt"))
	if err != nil {
		t.Fatalf("reading result.txt: %v", err)
	}
	if string(text) != s.Message() {
		t.Errorf("result.txt = %q, want %q", text, s.Message())
	}

	data, err := os.ReadFile(filepath.Join(dir, "result.json"))
	if err != nil {
		t.Fatalf("reading result.json: %v", err)
	}
	if !strings.Contains(string(data), "Світла не буде") {
		t.Error("result.json should keep non-ASCII text unescaped")
	}
	if !strings.Contains(string(data), "\n  \"ok\": true") {
		t.Errorf("result.json not indented by two spaces:\n%s", data)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("result.json is not valid JSON: %v", err)
	}
	for _, key := range []string{"ok", "when_utc", "tomorrow_tab_found", "tomorrow_date", "text", "error"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("result.json missing key %q", key)
		}
	}
	if decoded["error"] != nil {
		t.Errorf("error = %v, want null", decoded["error"])
	}
	if decoded["when_utc"] != "2026-10-14T10:00:00+00:00" {
		t.Errorf("when_utc = %v", decoded["when_utc"])
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("output directory has %d entries, want 2 (temp files left behind?)", len(entries))
	}
}

func TestWriteArtifactsOverwrites(t *testing.T) {
	dir := t.TempDir()
	s := NewExtractionStatus(time.Now())

	if err := WriteArtifacts(dir, "result.txt", "result.json", "first run", s); err != nil {
		t.Fatal(err)
	}
	if err := WriteArtifacts(dir, "result.txt", "result.json", "second", s); err != nil {
		t.Fatal(err)
	}

	text, _ := os.ReadFile(filepath.Join(dir, "result.txt"))
	if string(text) != "second" {
		t.Errorf("result.txt = %q, want %q", text, "second")
	}
}
