package main

import (
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
)

// readClipboardText prefers plain text from pbpaste on macOS, where the
// generic reader may hand back RTF.
func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
		if output, err := exec.Command("pbpaste").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "<") &&
		(strings.Contains(text, "<html") || strings.Contains(text, "<body") || strings.Contains(text, "<div"))
}

// rtfDestinations are groups whose content is never body text.
var rtfDestinations = map[string]bool{
	"fonttbl": true, "colortbl": true, "stylesheet": true, "info": true,
	"pict": true, "header": true, "footer": true, "expandedcolortbl": true,
}

// extractTextFromRTF keeps the body text of an RTF document. Groups that
// start with a destination word or \* are dropped whole.
func extractTextFromRTF(rtf string) string {
	var out strings.Builder
	out.Grow(len(rtf))
	skipDepth := 0 // depth of the group being skipped, 0 when not skipping
	depth := 0
	groupStart := false

	for i := 0; i < len(rtf); i++ {
		c := rtf[i]
		switch c {
		case '{':
			depth++
			groupStart = true
			continue
		case '}':
			if depth == skipDepth {
				skipDepth = 0
			}
			depth--
			continue
		case '\r', '\n':
			continue
		}
		first := groupStart
		groupStart = false

		if c != '\\' {
			if skipDepth == 0 {
				out.WriteByte(c)
			}
			continue
		}
		if i+1 >= len(rtf) {
			break
		}
		next := rtf[i+1]
		switch {
		case next == '*':
			if first && skipDepth == 0 {
				skipDepth = depth
			}
			i++
		case next == '\'':
			if i+3 < len(rtf) {
				if v, err := strconv.ParseUint(rtf[i+2:i+4], 16, 8); err == nil && skipDepth == 0 {
					out.WriteRune(rune(v))
				}
			}
			i += 3
		case next == '\\' || next == '{' || next == '}':
			if skipDepth == 0 {
				out.WriteByte(next)
			}
			i++
		case isLetter(next):
			j := i + 1
			for j < len(rtf) && isLetter(rtf[j]) {
				j++
			}
			word := rtf[i+1 : j]
			for j < len(rtf) && (rtf[j] == '-' || (rtf[j] >= '0' && rtf[j] <= '9')) {
				j++
			}
			if j < len(rtf) && rtf[j] == ' ' {
				j++
			}
			i = j - 1
			if first && rtfDestinations[word] && skipDepth == 0 {
				skipDepth = depth
			}
			if skipDepth != 0 {
				continue
			}
			switch word {
			case "par", "line":
				out.WriteByte('\n')
			case "tab":
				out.WriteByte('\t')
			}
		default:
			i++
		}
	}
	return out.String()
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

var htmlEntities = strings.NewReplacer(
	"&lt;", "<", "&gt;", ">", "&amp;", "&", "&quot;", "\"", "&#39;", "'", "&nbsp;", " ",
)

// extractTextFromHTML drops tags and decodes the common entities. Block
// tags become line breaks.
func extractTextFromHTML(html string) string {
	var out strings.Builder
	out.Grow(len(html))
	var tag strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
			tag.Reset()
		case r == '>' && inTag:
			inTag = false
			fields := strings.Fields(tag.String())
			if len(fields) == 0 {
				continue
			}
			switch strings.ToLower(strings.Trim(fields[0], "/")) {
			case "br", "p", "div", "li", "h1", "h2", "h3", "tr":
				out.WriteByte('\n')
			}
		case inTag:
			tag.WriteRune(r)
		default:
			out.WriteRune(r)
		}
	}
	return htmlEntities.Replace(out.String())
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

// cleanClipboardText reduces rich clipboard content to plain text with
// unix newlines and no control characters.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	switch {
	case isRTF(text):
		text = extractTextFromRTF(text)
	case isHTML(text):
		text = extractTextFromHTML(text)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 32 {
			result.WriteRune(r)
		}
	}
	return result.String()
}
