// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func allIds() []Id {
	return []Id{
		SchemaNotFoundId,
		SchemaParseErrorId,
		InvalidSchemaId,
		ValuesParseErrorId,
		MissingRequiredPropertiesId,
		InvalidValueId,
		ModeViolationId,
		UnknownPropertyId,
		ConfigLoadFailedId,
	}
}

func mockRender(t *testing.T) {
	t.Helper()

	original := render
	t.Cleanup(func() { render = original })
	render = func(in string, _ string) (string, error) { return in, nil }
}

func TestId_Constants(t *testing.T) {
	seen := make(map[Id]bool)
	for _, id := range allIds() {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	if SchemaNotFoundId != 1 {
		t.Errorf("SchemaNotFoundId = %d, want 1", SchemaNotFoundId)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{SchemaNotFoundId, false, "Schema not found"},
		{SchemaParseErrorId, false, "Failed to parse schema"},
		{InvalidSchemaId, false, "Invalid schema"},
		{ValuesParseErrorId, false, "Failed to parse input values"},
		{MissingRequiredPropertiesId, false, "Missing required properties"},
		{InvalidValueId, false, "Invalid property value"},
		{ModeViolationId, false, "Access mode violation"},
		{UnknownPropertyId, false, "Unknown property"},
		{ConfigLoadFailedId, false, "Failed to load configuration"},
		{Id(9999), true, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			issue := Get(tt.id)

			if tt.wantNil {
				if issue != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}

			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if issue.Id() != tt.id {
				t.Errorf("Get(%d).Id() = %d", tt.id, issue.Id())
			}
			if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain %q", tt.id, tt.contains)
			}
		})
	}
}

func TestValues(t *testing.T) {
	values := Values()

	if len(values) != len(allIds()) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(allIds()))
	}
	for i, issue := range values {
		if issue.Id() != allIds()[i] {
			t.Errorf("Values()[%d].Id() = %d, want ordering by Id", i, issue.Id())
		}
	}
}

func TestIssue_LinksAreCloned(t *testing.T) {
	issue := Get(SchemaParseErrorId)

	links := issue.ExtLinks()
	if len(links) == 0 {
		t.Fatal("ExtLinks() is empty")
	}
	original := links[0]
	links[0] = "modified"
	if issue.ExtLinks()[0] != original {
		t.Error("ExtLinks() should return a clone")
	}
	if issue.DocLinks() != nil {
		t.Errorf("DocLinks() = %v, want nil", issue.DocLinks())
	}
}

func TestIssue_Render(t *testing.T) {
	mockRender(t)

	withLinks, err := Get(SchemaParseErrorId).Render("dark")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(withLinks, "See also") || !strings.Contains(withLinks, "cuelang.org") {
		t.Errorf("Render() with links = %q, want a See also section", withLinks)
	}

	noLinks, err := Get(ModeViolationId).Render("dark")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if strings.Contains(noLinks, "See also") {
		t.Error("Render() without links should not contain 'See also'")
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	mockRender(t)

	for _, issue := range Values() {
		rendered, err := issue.Render("")
		if err != nil {
			t.Errorf("Issue %d failed to render: %v", issue.Id(), err)
		}
		if strings.TrimSpace(rendered) == "" {
			t.Errorf("Issue %d rendered to empty string", issue.Id())
		}
	}
}

func TestIssue_RenderWithGlamour(t *testing.T) {
	rendered, err := Get(UnknownPropertyId).Render("notty")
	if err != nil {
		t.Fatalf("Render(notty) error = %v", err)
	}
	if !strings.Contains(rendered, "Unknown property") {
		t.Errorf("Render(notty) = %q", rendered)
	}
}
