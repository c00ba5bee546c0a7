// processor.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/google/uuid"
)

// Labels of the address inputs on the shutdowns page
const (
	cityLabel   = "Введіть нас. пункт"
	streetLabel = "Введіть вулицю"
	houseLabel  = "Номер будинку"
)

// TabInfo describes the "tomorrow" tab once it has been selected
type TabInfo struct {
	DateLabel string
}

// SchedulePage drives the provider's shutdowns page. Every method blocks until its
// readiness condition holds or the context expires.
type SchedulePage interface {
	Open(ctx context.Context, url string) error
	PickAutocomplete(ctx context.Context, label, value string) error
	OpenTomorrowTab(ctx context.Context) (TabInfo, error)
	ScheduleTableHTML(ctx context.Context) (string, error)
	Close() error
}

// PageFactory opens a fresh browser session for one run
type PageFactory func(ctx context.Context, settings *Settings) (SchedulePage, error)

// ScheduleProcessor runs one extraction and always persists its outcome
type ScheduleProcessor struct {
	settings  *Settings
	newPage   PageFactory
	converter *md.Converter
	dumpTable bool
	now       func() time.Time
}

// NewScheduleProcessor creates a processor for the given settings
func NewScheduleProcessor(settings *Settings, newPage PageFactory) *ScheduleProcessor {
	return &ScheduleProcessor{
		settings:  settings,
		newPage:   newPage,
		converter: md.NewConverter("", true, nil),
		now:       time.Now,
	}
}

// SetDumpTable enables writing the extracted table as Markdown
func (sp *ScheduleProcessor) SetDumpTable(dump bool) {
	sp.dumpTable = dump
}

// Run performs the extraction. Extraction failures are recorded in the returned
// status; the error is non-nil only when the artifacts could not be written.
func (sp *ScheduleProcessor) Run(ctx context.Context) (*ExtractionStatus, error) {
	runID := uuid.New().String()
	status := NewExtractionStatus(sp.now())
	log.Printf("Run %s: fetching schedule for %s, %s %s", runID,
		sp.settings.Address.City, sp.settings.Address.Street, sp.settings.Address.House)

	if sp.settings.Timeouts.Total > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sp.settings.Timeouts.Total)
		defer cancel()
	}

	if err := sp.extract(ctx, status); err != nil {
		log.Printf("✗ Extraction failed: %v", err)
		status.Fail(err)
	} else {
		log.Printf("✓ %s", status.Message())
	}

	out := sp.settings.Output
	if err := WriteArtifacts(out.Directory, out.TextFile, out.StatusFile, status.Message(), status); err != nil {
		return status, fmt.Errorf("persisting results: %w", err)
	}
	return status, nil
}

func (sp *ScheduleProcessor) extract(ctx context.Context, status *ExtractionStatus) error {
	log.Printf("  → Opening browser...")
	page, err := sp.newPage(ctx, sp.settings)
	if err != nil {
		return fmt.Errorf("starting browser: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			log.Printf("Warning: closing browser: %v", err)
		}
	}()

	log.Printf("  → Loading %s", sp.settings.URL)
	if err := page.Open(ctx, sp.settings.URL); err != nil {
		return err
	}

	addr := sp.settings.Address
	for _, field := range []struct{ label, value string }{
		{cityLabel, addr.City},
		{streetLabel, addr.Street},
		{houseLabel, addr.House},
	} {
		log.Printf("  → Selecting %q", field.value)
		if err := page.PickAutocomplete(ctx, field.label, field.value); err != nil {
			return err
		}
	}

	log.Printf("  → Opening tomorrow tab...")
	tab, err := page.OpenTomorrowTab(ctx)
	if err != nil {
		return err
	}
	status.TomorrowTabFound = true
	if tab.DateLabel != "" {
		date := tab.DateLabel
		status.TomorrowDate = &date
	}

	log.Printf("  → Extracting schedule table...")
	tableHTML, err := page.ScheduleTableHTML(ctx)
	if err != nil {
		return fmt.Errorf("extracting schedule table: %w", err)
	}
	debugLog("table markup: %d bytes", len(tableHTML))

	if sp.dumpTable {
		sp.writeTableDump(tableHTML)
	}

	schedule, err := DecodeTable(tableHTML)
	if err != nil {
		return fmt.Errorf("decoding schedule table: %w", err)
	}
	debugLog("decoded %d ranges, %d minutes without power", len(schedule), schedule.TotalMinutes())

	status.Succeed(ComposeMessage(tab.DateLabel, FormatSchedule(schedule)))
	return nil
}

// writeTableDump saves the table as Markdown for diagnosing markup changes.
// Failures are logged and never affect the run.
func (sp *ScheduleProcessor) writeTableDump(tableHTML string) {
	name := sp.settings.Output.TableDump
	if name == "" {
		return
	}

	markdown, err := sp.converter.ConvertString(tableHTML)
	if err != nil {
		log.Printf("Warning: converting table to markdown: %v", err)
		return
	}

	path := filepath.Join(sp.settings.Output.Directory, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Printf("Warning: creating table dump directory: %v", err)
		return
	}
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		log.Printf("Warning: writing table dump: %v", err)
		return
	}
	log.Printf("  → Table dumped to: %s", path)
}
