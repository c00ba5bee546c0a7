package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"
)

// ISO-8601 with an explicit +00:00 offset
const whenLayout = "2006-01-02T15:04:05.999999-07:00"

var statusJSON = jsoniter.Config{
	EscapeHTML:             false,
	ValidateJsonRawMessage: true,
}.Froze()

// ExtractionStatus is the structured record written once per run
type ExtractionStatus struct {
	OK               bool    `json:"ok"`
	WhenUTC          string  `json:"when_utc"`
	TomorrowTabFound bool    `json:"tomorrow_tab_found"`
	TomorrowDate     *string `json:"tomorrow_date"`
	Text             *string `json:"text"`
	Error            *string `json:"error"`
}

// NewExtractionStatus returns a status in its initial, not-yet-successful state
func NewExtractionStatus(now time.Time) *ExtractionStatus {
	return &ExtractionStatus{
		WhenUTC: now.UTC().Format(whenLayout),
	}
}

// Succeed marks the run successful with the final message
func (s *ExtractionStatus) Succeed(text string) {
	s.OK = true
	s.TomorrowTabFound = true
	s.Text = &text
	s.Error = nil
}

// Fail marks the run failed and sets the fallback message
func (s *ExtractionStatus) Fail(err error) {
	msg := err.Error()
	text := FallbackText
	s.OK = false
	s.Error = &msg
	s.Text = &text
}

// Message returns the text to publish, or the fallback if none was set
func (s *ExtractionStatus) Message() string {
	if s.Text == nil {
		return FallbackText
	}
	return *s.Text
}

// WriteArtifacts writes the plain-text message and the JSON status into dir
func WriteArtifacts(dir, textFile, statusFile, text string, status *ExtractionStatus) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data, err := statusJSON.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling status: %w", err)
	}

	if err := writeFileAtomic(filepath.Join(dir, textFile), []byte(text)); err != nil {
		return fmt.Errorf("writing %s: %w", textFile, err)
	}
	if err := writeFileAtomic(filepath.Join(dir, statusFile), data); err != nil {
		return fmt.Errorf("writing %s: %w", statusFile, err)
	}

	log.Printf("  → Wrote %s (%s) and %s (%s)", textFile, humanize.Bytes(uint64(len(text))),
		statusFile, humanize.Bytes(uint64(len(data))))
	return nil
}

// writeFileAtomic writes to a temp file in the same directory and renames it over path
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
