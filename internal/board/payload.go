package board

import "strings"

// Payload is the kind-specific content of a node. Exactly one payload type
// exists per Kind.
type Payload interface {
	Kind() Kind
}

type DocumentPayload struct {
	Markdown string
}

type WhiteboardPayload struct {
	Stickies []string
}

type ScreenPayload struct {
	Variant  Variant
	Elements []string
}

type TablePayload struct {
	Columns []string
	Rows    [][]string
}

type Endpoint struct {
	Method string
	Path   string
}

type APIPayload struct {
	Endpoints []Endpoint
}

type TaskPayload struct {
	Items []string
	Done  int
}

type IntegrationPayload struct {
	Provider string
	Events   []string
}

func (DocumentPayload) Kind() Kind    { return KindDocument }
func (WhiteboardPayload) Kind() Kind  { return KindWhiteboard }
func (ScreenPayload) Kind() Kind      { return KindScreen }
func (TablePayload) Kind() Kind       { return KindTable }
func (APIPayload) Kind() Kind         { return KindAPI }
func (TaskPayload) Kind() Kind        { return KindTask }
func (IntegrationPayload) Kind() Kind { return KindIntegration }

// EmptyPayload returns the zero payload for k.
func EmptyPayload(k Kind) Payload {
	switch k {
	case KindWhiteboard:
		return WhiteboardPayload{}
	case KindScreen:
		return ScreenPayload{}
	case KindTable:
		return TablePayload{}
	case KindAPI:
		return APIPayload{}
	case KindTask:
		return TaskPayload{}
	case KindIntegration:
		return IntegrationPayload{}
	}
	return DocumentPayload{}
}

// Summary gives a one-line description of a payload for previews.
func Summary(p Payload) string {
	switch p := p.(type) {
	case DocumentPayload:
		for _, line := range splitLines(p.Markdown) {
			if line != "" {
				return line
			}
		}
		return ""
	case WhiteboardPayload:
		return countOf(len(p.Stickies), "sticky", "stickies")
	case ScreenPayload:
		return p.Variant.String() + " · " + countOf(len(p.Elements), "element", "elements")
	case TablePayload:
		return countOf(len(p.Columns), "column", "columns") + " · " + countOf(len(p.Rows), "row", "rows")
	case APIPayload:
		return countOf(len(p.Endpoints), "endpoint", "endpoints")
	case TaskPayload:
		return itoa(p.Done) + "/" + itoa(len(p.Items)) + " done"
	case IntegrationPayload:
		return p.Provider
	}
	return ""
}

// Lines is the preview text shown under a node title.
func Lines(p Payload) []string {
	switch p := p.(type) {
	case DocumentPayload:
		return strings.Split(strings.TrimSpace(p.Markdown), "\n")
	case WhiteboardPayload:
		return prefixed("• ", p.Stickies)
	case ScreenPayload:
		return append([]string{p.Variant.String()}, prefixed("▢ ", p.Elements)...)
	case TablePayload:
		lines := []string{strings.Join(p.Columns, " | ")}
		for _, row := range p.Rows {
			lines = append(lines, strings.Join(row, " | "))
		}
		return lines
	case APIPayload:
		lines := make([]string, 0, len(p.Endpoints))
		for _, ep := range p.Endpoints {
			lines = append(lines, ep.Method+" "+ep.Path)
		}
		return lines
	case TaskPayload:
		lines := make([]string, 0, len(p.Items))
		for i, it := range p.Items {
			mark := "[ ] "
			if i < p.Done {
				mark = "[x] "
			}
			lines = append(lines, mark+it)
		}
		return lines
	case IntegrationPayload:
		return append([]string{p.Provider}, prefixed("→ ", p.Events)...)
	}
	return nil
}

func prefixed(prefix string, items []string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = prefix + it
	}
	return out
}
