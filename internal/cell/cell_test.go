package cell

import "testing"

func TestCellDefault(t *testing.T) {
	c := Blank
	if c.Character != ' ' || !c.IsEmpty() {
		t.Errorf("Blank should be empty")
	}
}

func TestCellIsEmpty(t *testing.T) {
	if !Blank.IsEmpty() {
		t.Errorf("expected blank cell to be empty")
	}
	if NewCell('X').IsEmpty() {
		t.Errorf("non-space cell should not be empty")
	}
	withAttrs := Cell{Character: ' ', Attrs: Attributes{Bold: true}}
	if withAttrs.IsEmpty() {
		t.Errorf("space with attributes should not be empty")
	}
}

func TestCellIsWhitespace(t *testing.T) {
	if !NewCell(' ').IsWhitespace() {
		t.Errorf("space should be whitespace")
	}
	if !NewCell('\t').IsWhitespace() {
		t.Errorf("tab should be whitespace")
	}
	if NewCell('A').IsWhitespace() {
		t.Errorf("letter should not be whitespace")
	}
}

func TestColorEquality(t *testing.T) {
	if Indexed(42) != Indexed(42) {
		t.Errorf("identical indexed colors should be equal")
	}
	if RGB(255, 128, 64) != RGB(255, 128, 64) {
		t.Errorf("identical RGB colors should be equal")
	}
	if ANSI(1) == BrightANSI(1) {
		t.Errorf("ANSI red and bright red should differ")
	}
}

func TestAttributesIsDefault(t *testing.T) {
	var a Attributes
	if !a.IsDefault() {
		t.Errorf("zero-value attributes should be default")
	}
	a.Bold = true
	if a.IsDefault() {
		t.Errorf("bold attributes should not be default")
	}
}
