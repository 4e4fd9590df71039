package board

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindDocument Kind = iota
	KindWhiteboard
	KindScreen
	KindTable
	KindAPI
	KindTask
	KindIntegration
)

// Kinds lists every node kind in menu order.
var Kinds = []Kind{
	KindDocument,
	KindWhiteboard,
	KindScreen,
	KindTable,
	KindAPI,
	KindTask,
	KindIntegration,
}

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindWhiteboard:
		return "whiteboard"
	case KindScreen:
		return "screen"
	case KindTable:
		return "table"
	case KindAPI:
		return "api"
	case KindTask:
		return "task"
	case KindIntegration:
		return "integration"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown node kind %q", s)
}

type Status int

const (
	StatusLoading Status = iota
	StatusDone
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(s) {
	case "loading":
		return StatusLoading, nil
	case "done", "":
		return StatusDone, nil
	case "error":
		return StatusError, nil
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

type Variant int

const (
	VariantMobile Variant = iota
	VariantWeb
)

func (v Variant) String() string {
	if v == VariantWeb {
		return "web"
	}
	return "mobile"
}

func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(s) {
	case "mobile", "":
		return VariantMobile, nil
	case "web":
		return VariantWeb, nil
	}
	return 0, fmt.Errorf("unknown screen variant %q", s)
}

type EdgeKind int

const (
	EdgeFlow EdgeKind = iota
	EdgeDependency
	EdgeData
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeDependency:
		return "dependency"
	case EdgeData:
		return "data"
	}
	return "flow"
}

func ParseEdgeKind(s string) (EdgeKind, error) {
	switch strings.ToLower(s) {
	case "flow", "":
		return EdgeFlow, nil
	case "dependency":
		return EdgeDependency, nil
	case "data":
		return EdgeData, nil
	}
	return 0, fmt.Errorf("unknown edge kind %q", s)
}

// Theme names one entry of the fixed section palette.
type Theme string

const (
	ThemeSlate  Theme = "slate"
	ThemeBlue   Theme = "blue"
	ThemeGreen  Theme = "green"
	ThemeAmber  Theme = "amber"
	ThemeRose   Theme = "rose"
	ThemeViolet Theme = "violet"
)

var Themes = []Theme{ThemeSlate, ThemeBlue, ThemeGreen, ThemeAmber, ThemeRose, ThemeViolet}

// NextTheme returns the palette entry after t, wrapping around. Unknown
// themes restart the palette.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th == t {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

var themeHex = map[Theme]string{
	ThemeSlate:  "#64748b",
	ThemeBlue:   "#3b82f6",
	ThemeGreen:  "#22c55e",
	ThemeAmber:  "#f59e0b",
	ThemeRose:   "#f43f5e",
	ThemeViolet: "#8b5cf6",
}

// Hex is the accent colour of t. Unknown themes use slate.
func (t Theme) Hex() string {
	if h, ok := themeHex[t]; ok {
		return h
	}
	return themeHex[ThemeSlate]
}
