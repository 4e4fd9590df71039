package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotboard/internal/board"
	"plotboard/internal/geom"
)

// boardCreator adapts a bare board to the Creator interface.
type boardCreator struct{ *board.Board }

func (c boardCreator) CreateEntity(n board.Node) (string, error) { return c.AddNode(n) }

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestFilesSkipsBadOnes(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		write(t, dir, "brief.md", "# Product brief\nhello"),
		write(t, dir, "logo.png", "not text"),
		filepath.Join(dir, "missing.md"),
		write(t, dir, "notes.txt", "just notes"),
	}
	b := board.New()

	res := Files(boardCreator{b}, paths, geom.Point{X: 100, Y: 50}, nil)

	require.Len(t, res.Created, 2)
	require.Len(t, res.Skipped, 2)
	assert.ErrorIs(t, res.Skipped[0].Err, ErrUnsupported)
	assert.Equal(t, paths[2], res.Skipped[1].Path)

	first, _ := b.Node(res.Created[0])
	second, _ := b.Node(res.Created[1])
	assert.Equal(t, "Product brief", first.Title)
	assert.Equal(t, "notes", second.Title)
	assert.Equal(t, geom.Point{X: 100, Y: 50}, first.Origin())
	assert.Equal(t, geom.Point{X: 100 + 360 + Gap, Y: 50}, second.Origin())
	assert.Equal(t, board.DocumentPayload{Markdown: "just notes"}, second.Payload)
}

func TestTextCentresOnPoint(t *testing.T) {
	b := board.New()
	id, err := Text(boardCreator{b}, "  # Idea\nship it  ", geom.Point{X: 0, Y: 0})
	require.NoError(t, err)

	n, _ := b.Node(id)
	assert.Equal(t, "Idea", n.Title)
	assert.Equal(t, geom.Point{X: 0, Y: 0}, n.Rect().Center())

	_, err = Text(boardCreator{b}, "   ", geom.Point{})
	assert.Error(t, err)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Goals", Title("intro\n## Goals\n", "x"))
	assert.Equal(t, "x", Title("#\nno heading", "x"))
}
