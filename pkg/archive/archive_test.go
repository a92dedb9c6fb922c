package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/danish/blueprint/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"clean", "# Title\n\nBody", "# Title\n\nBody"},
		{"bom", "\ufeff# Title", "# Title"},
		{"zero width", "a\u200bb\u200cc\u200dd", "abcd"},
		{"control chars", "a\x00b\x07c", "abc"},
		{"crlf", "line1\r\nline2\rline3", "line1\nline2\nline3"},
		{"keeps tabs", "a\tb", "a\tb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestBuilder_Filename(t *testing.T) {
	b := NewBuilder()
	b.clock = func() time.Time {
		return time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	}

	name := b.Filename("AI meal planner!")
	assert.Equal(t, "blueprint_AI_meal_planner_20250301_123000.zip", name)

	assert.Equal(t, "blueprint_blueprint_20250301_123000.zip", b.Filename("!!!"))
}

func TestBuilder_Write(t *testing.T) {
	snap := registry.Snapshot{
		Idea:   "AI meal planner",
		Status: registry.StatusCompleted,
		Files: map[string]string{
			"product_brief.md": "# Brief\u200b with zero width",
			"prd.md":           "# PRD",
		},
	}

	var buf bytes.Buffer
	b := NewBuilder()
	err := b.Write(&buf, snap, []string{"product_brief.md", "prd.md"})
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	contents := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		contents[f.Name] = string(data)
	}

	assert.Len(t, contents, 3)
	assert.Equal(t, "# Brief with zero width", contents["product_brief.md"], "content is sanitized")
	assert.Equal(t, "# PRD", contents["prd.md"])
	assert.Contains(t, contents["README.md"], "AI meal planner")
	assert.Contains(t, contents["README.md"], "product_brief.md")
}

func TestBuilder_WriteSkipsMissingSlots(t *testing.T) {
	snap := registry.Snapshot{
		Idea:  "idea",
		Files: map[string]string{"prd.md": "# PRD"},
	}

	var buf bytes.Buffer
	err := NewBuilder().Write(&buf, snap, []string{"prd.md", "never_generated.md"})
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Len(t, zr.File, 2) // prd.md + README.md
}
