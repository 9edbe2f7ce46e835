package dispatch_test

import (
	"strings"
	"testing"

	"assistant-platform/services/function-gateway/internal/domain/dispatch"
)

func TestFormatArguments_SortsKeys(t *testing.T) {
	got := dispatch.FormatArguments(map[string]any{
		"phone": "+7 999 123-45-67",
		"name":  "Ivan",
		"car":   "Lada",
	})

	want := "car: Lada\nname: Ivan\nphone: +7 999 123-45-67"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatArguments_FlattensNestedObjects(t *testing.T) {
	got := dispatch.FormatArguments(map[string]any{
		"client": map[string]any{
			"name":  "Ivan",
			"phone": "+7 999 123-45-67",
		},
	})

	if !strings.Contains(got, "name: Ivan") || !strings.Contains(got, "phone: +7 999 123-45-67") {
		t.Errorf("nested pairs must surface as top-level lines, got %q", got)
	}
	if strings.Contains(got, "client") {
		t.Errorf("intermediate object key must not appear, got %q", got)
	}
}

func TestFormatArguments_FlattensArraysOfObjects(t *testing.T) {
	got := dispatch.FormatArguments(map[string]any{
		"items": []any{
			map[string]any{"sku": "A-1"},
			map[string]any{"sku": "B-2"},
		},
	})

	if got != "sku: A-1\nsku: B-2" {
		t.Errorf("expected one line per element, got %q", got)
	}
}

func TestFormatArguments_ScalarArrayRepeatsKey(t *testing.T) {
	got := dispatch.FormatArguments(map[string]any{
		"tags": []any{"vip", "repeat"},
	})

	if got != "tags: vip\ntags: repeat" {
		t.Errorf("expected key repeated per element, got %q", got)
	}
}

func TestFormatArguments_SkipsEmptyValues(t *testing.T) {
	got := dispatch.FormatArguments(map[string]any{
		"name":  "Ivan",
		"email": "",
		"note":  nil,
	})

	if got != "name: Ivan" {
		t.Errorf("empty and nil values must be dropped, got %q", got)
	}
}

func TestFormatArguments_EmptyPayloadPlaceholder(t *testing.T) {
	if got := dispatch.FormatArguments(map[string]any{}); got != dispatch.EmptyPayloadText {
		t.Errorf("expected placeholder, got %q", got)
	}
	if got := dispatch.FormatArguments(map[string]any{"note": ""}); got != dispatch.EmptyPayloadText {
		t.Errorf("all-empty payload must render the placeholder, got %q", got)
	}
}

func TestFormatArguments_NumbersAndBooleans(t *testing.T) {
	got := dispatch.FormatArguments(map[string]any{
		"count":  float64(3),
		"urgent": true,
	})

	if got != "count: 3\nurgent: true" {
		t.Errorf("expected scalar rendering, got %q", got)
	}
}
