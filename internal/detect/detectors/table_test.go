package detectors

import "testing"

func TestTableDetectorWithBoldHeader(t *testing.T) {
	g := newGrid(6, 30)
	writeBoldRow(g, 0, "Name     Age   City")
	writeRow(g, 1, "Alice    30    NYC")
	writeRow(g, 2, "Bob      25    LA")

	got := TableDetector{}.Detect(g, newCtx())
	if len(got) != 1 {
		t.Fatalf("expected 1 table, got %d", len(got))
	}
	tbl := got[0].Element
	if len(tbl.Headers) == 0 {
		t.Fatalf("expected headers to be populated")
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d: %+v", len(tbl.Rows), tbl.Rows)
	}
}

func TestTableDetectorSeparatorLineHeader(t *testing.T) {
	g := newGrid(6, 30)
	writeRow(g, 0, "Name     Age   City")
	writeRow(g, 1, "----     ---   ----")
	writeRow(g, 2, "Alice    30    NYC")
	writeRow(g, 3, "Bob      25    LA")

	got := TableDetector{}.Detect(g, newCtx())
	if len(got) != 1 {
		t.Fatalf("expected 1 table, got %d", len(got))
	}
	if len(got[0].Element.Rows) != 2 {
		t.Fatalf("separator row should be excluded from data rows, got %d", len(got[0].Element.Rows))
	}
}

func TestTableDetectorRequiresMinColumns(t *testing.T) {
	g := newGrid(6, 30)
	writeRow(g, 0, "onecolumnvalue")
	writeRow(g, 1, "anothervalueok")

	got := TableDetector{}.Detect(g, newCtx())
	if len(got) != 0 {
		t.Errorf("single-column region should not qualify as a table, got %d", len(got))
	}
}
