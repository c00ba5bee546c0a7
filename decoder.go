package main

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Leading service cells (legend, colspan="2") before the hour cells
const structuralCells = 2

// DecodeTable parses the schedule table markup into a merged blackout schedule
func DecodeTable(tableHTML string) (BlackoutSchedule, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return nil, fmt.Errorf("parsing table HTML: %w", err)
	}

	cells := doc.Find("tbody tr td")
	hourCells := cells.Length() - structuralCells
	if hourCells < 0 {
		hourCells = 0
	}
	if hourCells != hoursPerDay {
		return nil, &MalformedTableError{Got: hourCells}
	}

	var ranges []MinuteRange
	unknown := 0
	cells.Slice(structuralCells, structuralCells+hoursPerDay).Each(func(hour int, td *goquery.Selection) {
		status, ok := StatusFromClasses(cellClasses(td))
		if !ok {
			unknown++
		}
		ranges = append(ranges, ClassifyHour(hour, status)...)
	})

	if unknown > 0 {
		debugLog("%d hour cells had no known class, treated as no outage", unknown)
	}

	return MergeRanges(ranges), nil
}

func cellClasses(td *goquery.Selection) []string {
	class, _ := td.Attr("class")
	return strings.Fields(class)
}
