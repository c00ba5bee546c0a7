package main

import (
	"errors"
	"fmt"
)

// ErrTomorrowTabNotFound is returned when the page has no "tomorrow" schedule tab
var ErrTomorrowTabNotFound = errors.New("tomorrow tab not found")

// NavigationError means the source page could not be reached or looked wrong
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigating to %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// AddressSelectionError means an autocomplete field could not be filled
type AddressSelectionError struct {
	Label string
	Value string
	Err   error
}

func (e *AddressSelectionError) Error() string {
	return fmt.Sprintf("selecting %q in %q: %v", e.Value, e.Label, e.Err)
}

func (e *AddressSelectionError) Unwrap() error {
	return e.Err
}

// MalformedTableError means the table did not have 24 hour cells after the prefix
type MalformedTableError struct {
	Got int
}

func (e *MalformedTableError) Error() string {
	return fmt.Sprintf("expected %d hour cells, got %d", hoursPerDay, e.Got)
}
