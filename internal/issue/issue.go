// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies a catalogued issue.
type Id int

const (
	SchemaNotFoundId Id = iota + 1
	SchemaParseErrorId
	InvalidSchemaId
	ValuesParseErrorId
	MissingRequiredPropertiesId
	InvalidValueId
	ModeViolationId
	UnknownPropertyId
	ConfigLoadFailedId
)

// MarkdownMsg is Markdown text rendered to the terminal.
type MarkdownMsg string

// HttpLink is a documentation or reference URL.
type HttpLink string

// Renderer renders Markdown with a glamour style.
type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

// Issue is a catalogued problem with Markdown guidance for the user.
type Issue struct {
	id       Id
	mdMsg    MarkdownMsg
	docLinks []HttpLink
	extLinks []HttpLink
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue with the given glamour style ("auto", "dark",
// "light" or a path to a style file).
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	schemaNotFoundIssue = &Issue{
		id: SchemaNotFoundId,
		mdMsg: `
# Schema not found!

The schema you named is neither a file nor a schema in any configured
schema directory.

## Things you can try:
- Pass a path to the schema file:
~~~
$ kit validate --schema ./server.cue
~~~

- Add the directory holding your schemas to the configuration:
~~~cue
schema_dirs: ["./schemas"]
~~~`,
	}

	schemaParseErrorIssue = &Issue{
		id: SchemaParseErrorId,
		mdMsg: `
# Failed to parse schema!

The schema file is not valid CUE, TOML, YAML or JSON, or it does not match
the schema document layout.

## Common issues:
- Syntax errors (missing quotes, braces or brackets)
- Unknown fields in the schema or in a property declaration
- A file extension that does not match its content

## Example schema:
~~~cue
name: "server"
properties: [
  {name: "host", type: "string", default: "localhost"},
  {name: "port", type: "integer", required: true},
]
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	invalidSchemaIssue = &Issue{
		id: InvalidSchemaId,
		mdMsg: `
# Invalid schema!

The schema parsed, but some declarations contradict each other.

## Common issues:
- A property mode that the schema mode does not allow
- A strictly read-only ('r') property that is required or has no default
- A default value that its own type rejects
- Options that the property type does not understand`,
	}

	valuesParseErrorIssue = &Issue{
		id: ValuesParseErrorId,
		mdMsg: `
# Failed to parse input values!

The values file or a '--set' flag could not be read.

## Things you can try:
- Use 'name=value' for every '--set' flag
- Check the syntax of the values file and its extension`,
	}

	missingRequiredPropertiesIssue = &Issue{
		id: MissingRequiredPropertiesId,
		mdMsg: `
# Missing required properties!

Some required properties received no value.

## Things you can try:
- Provide them by name with '--set name=value'
- Provide them by position after the flags, in declaration order
- Give them a default in the schema`,
	}

	invalidValueIssue = &Issue{
		id: InvalidValueId,
		mdMsg: `
# Invalid property value!

A value was rejected by the property type or one of its checks.

## Things you can try:
- Run 'kit describe' to see each property's type
- Check enumerations and patterns for the accepted values`,
	}

	modeViolationIssue = &Issue{
		id: ModeViolationId,
		mdMsg: `
# Access mode violation!

The property's mode does not allow this access.

## Modes:
- 'r': read-only, value comes from the default
- 'r+': read-only after initialization
- 'rw': read and write
- 'w': write-only
- 'w-': written once at initialization`,
	}

	unknownPropertyIssue = &Issue{
		id: UnknownPropertyId,
		mdMsg: `
# Unknown property!

The input names a property the schema does not declare.

## Things you can try:
- Run 'kit describe' to list the declared properties
- Check the spelling of the name
- Turn off 'strict_remainder' to ignore extra input`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Show the effective configuration:
~~~
$ kit config show
~~~

- Write a fresh default file:
~~~
$ kit config init
~~~

- Check KIT_* environment variables for invalid values`,
	}

	issues = map[Id]*Issue{
		schemaNotFoundIssue.Id():            schemaNotFoundIssue,
		schemaParseErrorIssue.Id():          schemaParseErrorIssue,
		invalidSchemaIssue.Id():             invalidSchemaIssue,
		valuesParseErrorIssue.Id():          valuesParseErrorIssue,
		missingRequiredPropertiesIssue.Id(): missingRequiredPropertiesIssue,
		invalidValueIssue.Id():              invalidValueIssue,
		modeViolationIssue.Id():             modeViolationIssue,
		unknownPropertyIssue.Id():           unknownPropertyIssue,
		configLoadFailedIssue.Id():          configLoadFailedIssue,
	}
)

// Values returns every catalogued issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

// Get returns the issue with the given Id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
