// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"fmt"
	"slices"
	"strings"
)

// Markdown renders the schema as a Markdown document with one table row per
// declaration.
func (s *Schema) Markdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", s.Name)
	if s.Description != "" {
		sb.WriteString(s.Description)
		sb.WriteString("\n\n")
	}

	loading := "eager"
	if s.Lazy {
		loading = "lazy"
	}
	fmt.Fprintf(&sb, "Mode: `%s` · Loading: %s\n\n", s.EffectiveMode(), loading)

	if len(s.Properties) == 0 {
		sb.WriteString("_No properties._\n")
		return sb.String()
	}

	required := s.RequiredNames()
	sb.WriteString("| Property | Type | Mode | Required | Default | Description |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for _, d := range s.Properties {
		typ := d.Type
		if typ == "" {
			typ = "any"
		}
		if d.Nullable {
			typ += "?"
		}
		mode := s.EffectiveMode().String()
		if d.Mode != "" {
			mode = d.Mode.String()
		}
		req := "no"
		if slices.Contains(required, d.Name) {
			req = "yes"
		}
		def := ""
		if d.HasDefault() {
			def = fmt.Sprintf("`%v`", d.Default)
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s | %s | %s | %s |\n",
			d.Name, typ, mode, req, escapeCell(def), escapeCell(d.Description))
	}
	return sb.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
