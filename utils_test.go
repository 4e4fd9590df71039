package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanClipboardText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello\r\nworld", "hello\nworld"},
		{"control chars", "a\x00b\x07c\td", "abc\td"},
		{"empty", "", ""},
		{
			"rtf",
			`{\rtf1\ansi{\fonttbl\f0\fswiss Helvetica;}{\colortbl;\red0\green0\blue0;}\f0\pard Hello\par World \'e9t\'e9\}}`,
			"Hello\nWorld été}",
		},
		{
			"rtf ignorable group",
			`{\rtf1{\*\generator Writer;}Body}`,
			"Body",
		},
		{
			"html",
			"<html><body><p>Goals</p><div>ship &amp; learn</div></body></html>",
			"\nGoals\n\nship & learn\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanClipboardText(tt.in))
		})
	}
}

func TestMentionToken(t *testing.T) {
	assert.Equal(t, "@Product-brief", mentionToken(nodeTitled("brief", "Product brief")))
	assert.Equal(t, "@brief", mentionToken(nodeTitled("brief", "")))
}
