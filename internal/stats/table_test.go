package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"User", "Mode", "Points"}
	rows := [][]string{
		{"ana", "easy", "12"},
		{"björn", "advanced", "3"},
	}
	rightAlign := map[int]bool{2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[0] != "User  Mode     Points" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "----- -------- ------" {
		t.Fatalf("unexpected rule line: %q", lines[1])
	}
	if lines[2] != "ana   easy         12" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
	if lines[3] != "björn advanced      3" {
		t.Fatalf("unexpected row line: %q", lines[3])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil lines, got %v", lines)
	}
}
