package style

import (
	"regexp"
	"strings"
	"testing"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripAnsi(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

func TestTable_Render_RowsAndHeader(t *testing.T) {
	tbl := NewTable(
		Column{Name: "Alias", Width: 12},
		Column{Name: "Session", Width: 10},
	)
	tbl.SetHeaderSeparator(false).SetIndent("")
	tbl.AddRow("debug-api", "abc123")
	tbl.AddRow("scratch", "def456")

	lines := strings.Split(strings.TrimRight(tbl.Render(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(stripAnsi(lines[0]), "Alias") {
		t.Errorf("header missing column name: %q", lines[0])
	}
	if !strings.Contains(lines[1], "debug-api") || !strings.Contains(lines[1], "abc123") {
		t.Errorf("row 1 missing data: %q", lines[1])
	}
}

func TestTable_Render_SeparatorAndIndent(t *testing.T) {
	tbl := NewTable(Column{Name: "N", Width: 4})
	tbl.SetIndent("> ")
	tbl.AddRow("x")

	lines := strings.Split(strings.TrimRight(tbl.Render(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + separator + row, got %d lines", len(lines))
	}
	if !strings.Contains(stripAnsi(lines[1]), "─") {
		t.Errorf("separator line = %q, want rule characters", lines[1])
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "> ") {
			t.Errorf("line missing indent: %q", line)
		}
	}
}

func TestTable_AddRow_PadsMissingCells(t *testing.T) {
	tbl := NewTable(
		Column{Name: "A", Width: 3},
		Column{Name: "B", Width: 3},
	)
	tbl.AddRow("x")
	if len(tbl.rows[0]) != 2 {
		t.Fatalf("row len = %d, want 2", len(tbl.rows[0]))
	}
	if tbl.rows[0][1] != "" {
		t.Errorf("padded cell = %q, want empty", tbl.rows[0][1])
	}
}

func TestTable_Render_TruncatesLongValues(t *testing.T) {
	tbl := NewTable(Column{Name: "N", Width: 6})
	tbl.SetHeaderSeparator(false).SetIndent("")
	tbl.AddRow("a-very-long-value")

	lines := strings.Split(strings.TrimRight(tbl.Render(), "\n"), "\n")
	row := stripAnsi(lines[1])
	if !strings.Contains(row, "…") {
		t.Errorf("expected truncation ellipsis, got %q", row)
	}
	if len([]rune(row)) != 6 {
		t.Errorf("row width = %d runes, want 6", len([]rune(row)))
	}
}

func TestTable_Render_NoColumns(t *testing.T) {
	if out := NewTable().Render(); out != "" {
		t.Errorf("Render() = %q, want empty", out)
	}
}
