package main

import (
	"strings"
	"testing"
)

func TestJSCall(t *testing.T) {
	tests := []struct {
		name     string
		template string
		args     []string
		expected string
	}{
		{"plain", "f(%s)", []string{"Сонячна"}, `f("Сонячна")`},
		{"quotes", "f(%s, %s)", []string{`say "hi"`, "pick-1"}, `f("say \"hi\"", "pick-1")`},
		{"html not escaped", "f(%s)", []string{"<td>"}, `f("<td>")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := jsCall(tt.template, tt.args...); result != tt.expected {
				t.Errorf("jsCall() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestScheduleTableExpr(t *testing.T) {
	expr := scheduleTableExpr()

	if !strings.HasPrefix(expr, findTableFunc) {
		t.Error("expression should start with the table lookup function")
	}
	if !strings.HasSuffix(expr, `("Графік відключень")`) {
		t.Errorf("expression should call the lookup with the header, got suffix %q", expr[len(expr)-40:])
	}
}
