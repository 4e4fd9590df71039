// Package importer turns markdown files and pasted text into Document nodes.
package importer

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"plotboard/internal/board"
	"plotboard/internal/geom"
	"plotboard/internal/logging"
)

var ErrUnsupported = errors.New("unsupported file type")

// Gap separates imported documents laid out in a row.
const Gap = 40

var extensions = map[string]bool{".md": true, ".markdown": true, ".txt": true}

type Creator interface {
	CreateEntity(n board.Node) (string, error)
}

type Skip struct {
	Path string
	Err  error
}

type Result struct {
	Created []string
	Skipped []Skip
}

// Files creates one Document per readable file, left to right from origin.
// A file that fails is skipped and the rest still import.
func Files(c Creator, paths []string, origin geom.Point, log *slog.Logger) Result {
	if log == nil {
		log = logging.Discard()
	}
	var res Result
	x := origin.X
	for _, path := range paths {
		id, err := file(c, path, geom.Point{X: x, Y: origin.Y})
		if err != nil {
			log.Warn("import skipped", "path", path, "err", err)
			res.Skipped = append(res.Skipped, Skip{Path: path, Err: err})
			continue
		}
		log.Info("imported", "path", path, "id", id)
		res.Created = append(res.Created, id)
		x += board.DefaultSize(board.KindDocument, board.VariantMobile).Width + Gap
	}
	return res
}

func file(c Creator, path string, at geom.Point) (string, error) {
	if !extensions[strings.ToLower(filepath.Ext(path))] {
		return "", fmt.Errorf("%s: %w", filepath.Ext(path), ErrUnsupported)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return create(c, string(data), base, at)
}

// Text creates a Document from pasted text centred on at.
func Text(c Creator, text string, at geom.Point) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("empty text")
	}
	size := board.DefaultSize(board.KindDocument, board.VariantMobile)
	origin := geom.Point{X: at.X - size.Width/2, Y: at.Y - size.Height/2}
	return create(c, text, "Pasted note", origin)
}

func create(c Creator, markdown, fallback string, at geom.Point) (string, error) {
	return c.CreateEntity(board.Node{
		Kind:    board.KindDocument,
		X:       at.X,
		Y:       at.Y,
		Title:   Title(markdown, fallback),
		Status:  board.StatusDone,
		Payload: board.DocumentPayload{Markdown: markdown},
	})
}

// Title is the first heading in markdown, or fallback when there is none.
func Title(markdown, fallback string) string {
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			if t := strings.TrimSpace(strings.TrimLeft(line, "#")); t != "" {
				return t
			}
		}
	}
	return fallback
}
