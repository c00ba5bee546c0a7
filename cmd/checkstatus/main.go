package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

type status struct {
	OK      bool    `json:"ok"`
	WhenUTC string  `json:"when_utc"`
	Text    *string `json:"text"`
	Error   *string `json:"error"`
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: checkstatus <result.json> [max-age-hours]")
	}

	maxAge := 24 * time.Hour
	if len(os.Args) > 2 {
		hours, err := strconv.Atoi(os.Args[2])
		if err != nil || hours <= 0 {
			log.Fatalf("Invalid max age %q", os.Args[2])
		}
		maxAge = time.Duration(hours) * time.Hour
	}

	if err := check(os.Args[1], maxAge, time.Now()); err != nil {
		log.Fatal(err)
	}
}

// check fails when the status record is missing, unsuccessful or older than maxAge
func check(path string, maxAge time.Duration, now time.Time) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading status file %s: %w", path, err)
	}

	var s status
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parsing status file %s: %w", path, err)
	}

	when, err := time.Parse(time.RFC3339Nano, s.WhenUTC)
	if err != nil {
		return fmt.Errorf("parsing when_utc %q: %w", s.WhenUTC, err)
	}
	if age := now.Sub(when); age > maxAge {
		return fmt.Errorf("status is stale: written %s", humanize.RelTime(when, now, "ago", "from now"))
	}

	if !s.OK {
		reason := "unknown error"
		if s.Error != nil {
			reason = *s.Error
		}
		return fmt.Errorf("last run failed %s: %s", humanize.RelTime(when, now, "ago", "from now"), reason)
	}

	if s.Text != nil {
		log.Printf("OK: %s", *s.Text)
	}
	return nil
}
