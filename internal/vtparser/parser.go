// Package vtparser implements the byte-stream VT/ANSI state machine that
// mutates a grid.Grid. Unlike the reference implementation (which builds a
// fresh parser for every call), this Parser's scanner state persists
// across Process calls — a multi-byte escape sequence split across two
// PTY reads is handled correctly either way. See DESIGN.md for the
// rationale.
package vtparser

import (
	"strconv"

	"github.com/tstmcp/terminal-mcp/internal/cell"
	"github.com/tstmcp/terminal-mcp/internal/grid"
)

type scanState int

const (
	stateGround scanState = iota
	stateEscape
	stateCSI
	stateOSC
	stateOSCEscape // saw ESC while inside an OSC string, waiting for '\' (ST)
	stateDCS
	stateDCSEscape
)

// Parser feeds bytes into a grid, recognizing the CSI/SGR subset
// documented in spec.md §4.1. OSC/DCS/other ESC sequences are consumed
// without corrupting grid state.
type Parser struct {
	grid  *grid.Grid
	state scanState
	params []int
	curNum string
	sawAny bool
}

// New builds a parser writing into g.
func New(g *grid.Grid) *Parser {
	return &Parser{grid: g, state: stateGround}
}

// Grid returns the grid this parser mutates.
func (p *Parser) Grid() *grid.Grid { return p.grid }

// Process feeds bytes through the state machine, returns the byte count
// consumed (always len(data); kept as a return value for symmetry with
// session.processOutput's byte-count bookkeeping).
func (p *Parser) Process(data []byte) int {
	for _, b := range data {
		p.step(b)
	}
	return len(data)
}

func (p *Parser) step(b byte) {
	switch p.state {
	case stateGround:
		p.stepGround(b)
	case stateEscape:
		p.stepEscape(b)
	case stateCSI:
		p.stepCSI(b)
	case stateOSC:
		p.stepOSC(b)
	case stateOSCEscape:
		if b == '\\' {
			p.state = stateGround
		} else {
			p.state = stateOSC
		}
	case stateDCS:
		p.stepDCS(b)
	case stateDCSEscape:
		if b == '\\' {
			p.state = stateGround
		} else {
			p.state = stateDCS
		}
	}
}

func (p *Parser) stepGround(b byte) {
	switch b {
	case 0x1B: // ESC
		p.state = stateEscape
	case 0x08: // BS
		p.execute(b)
	case 0x09: // HT
		p.execute(b)
	case 0x0A: // LF
		p.execute(b)
	case 0x0D: // CR
		p.execute(b)
	default:
		if b < 0x20 {
			// other C0 bytes ignored
			return
		}
		p.print(rune(b))
	}
}

// print handles single-byte ASCII directly; multi-byte UTF-8 is assembled
// by the caller layer (session.processOutput decodes runes before
// forwarding to Process when necessary). For the pure byte path here we
// treat bytes >=0x20 as Latin-1-ish codepoints, which is sufficient for
// the ASCII control/graphics vocabulary the detectors key off of.
func (p *Parser) print(r rune) {
	p.grid.WriteChar(r)
}

// ProcessRunes feeds already-decoded Unicode text through the print path,
// letting callers hand the parser valid UTF-8 runes (e.g. box-drawing
// characters) while control bytes still flow through Process.
func (p *Parser) ProcessRunes(s string) {
	for _, r := range s {
		if r < 0x80 {
			p.step(byte(r))
		} else if p.state == stateGround {
			p.print(r)
		}
	}
}

func (p *Parser) execute(b byte) {
	c := p.grid.Cursor()
	switch b {
	case 0x08: // BS
		col := c.Position.Col - 1
		if col < 0 {
			col = 0
		}
		p.grid.MoveCursor(c.Position.Row, col)
	case 0x09: // HT: next multiple of 8, clamped
		cols := p.grid.Dimensions().Cols
		next := ((c.Position.Col / 8) + 1) * 8
		if next > cols-1 {
			next = cols - 1
		}
		p.grid.MoveCursor(c.Position.Row, next)
	case 0x0A: // LF: row++, no column reset
		rows := p.grid.Dimensions().Rows
		row := c.Position.Row + 1
		if row > rows-1 {
			row = rows - 1
		}
		p.grid.MoveCursor(row, c.Position.Col)
	case 0x0D: // CR
		p.grid.MoveCursor(c.Position.Row, 0)
	}
}

func (p *Parser) stepEscape(b byte) {
	switch b {
	case '[':
		p.state = stateCSI
		p.params = p.params[:0]
		p.curNum = ""
	case ']':
		p.state = stateOSC
	case 'P':
		p.state = stateDCS
	default:
		// Unrecognized ESC final (single-byte ESC sequences): return to
		// ground without side effects.
		p.state = stateGround
	}
}

func (p *Parser) stepOSC(b byte) {
	switch b {
	case 0x07: // BEL terminates OSC
		p.state = stateGround
	case 0x1B:
		p.state = stateOSCEscape
	}
}

func (p *Parser) stepDCS(b byte) {
	if b == 0x1B {
		p.state = stateDCSEscape
	}
}

func (p *Parser) stepCSI(b byte) {
	switch {
	case b >= '0' && b <= '9':
		p.curNum += string(b)
		return
	case b == ';':
		p.pushParam()
		return
	case b >= 0x40 && b <= 0x7E:
		p.pushParam()
		p.dispatchCSI(b)
		p.state = stateGround
		return
	default:
		// intermediate bytes (0x20-0x2F) ignored
		return
	}
}

func (p *Parser) pushParam() {
	if p.curNum == "" {
		p.params = append(p.params, -1) // -1 marks "use default"
	} else {
		n, err := strconv.Atoi(p.curNum)
		if err != nil {
			n = -1
		}
		p.params = append(p.params, n)
	}
	p.curNum = ""
}

func (p *Parser) param(i, def int) int {
	if i >= len(p.params) || p.params[i] < 0 {
		return def
	}
	return p.params[i]
}

func (p *Parser) dispatchCSI(final byte) {
	c := p.grid.Cursor()
	rows, cols := p.grid.Dimensions().Rows, p.grid.Dimensions().Cols

	switch final {
	case 'A':
		n := p.param(0, 1)
		row := c.Position.Row - n
		if row < 0 {
			row = 0
		}
		p.grid.MoveCursor(row, c.Position.Col)
	case 'B':
		n := p.param(0, 1)
		row := c.Position.Row + n
		if row > rows-1 {
			row = rows - 1
		}
		p.grid.MoveCursor(row, c.Position.Col)
	case 'C':
		n := p.param(0, 1)
		col := c.Position.Col + n
		if col > cols-1 {
			col = cols - 1
		}
		p.grid.MoveCursor(c.Position.Row, col)
	case 'D':
		n := p.param(0, 1)
		col := c.Position.Col - n
		if col < 0 {
			col = 0
		}
		p.grid.MoveCursor(c.Position.Row, col)
	case 'H', 'f':
		row := p.param(0, 1) - 1
		col := p.param(1, 1) - 1
		p.grid.MoveCursor(row, col)
	case 'J':
		p.grid.EraseDisplay(p.param(0, 0))
	case 'K':
		p.grid.EraseLine(p.param(0, 0))
	case 'm':
		p.processSGR()
	case 's':
		p.grid.SaveCursor()
	case 'u':
		p.grid.RestoreCursor()
	}
}

func (p *Parser) processSGR() {
	if len(p.params) == 0 {
		p.applySGRReset()
		return
	}

	fg, bg, attrs := p.grid.CurrentStyle()

	for i := 0; i < len(p.params); i++ {
		code := p.params[i]
		if code < 0 {
			code = 0
		}
		switch {
		case code == 0:
			fg, bg, attrs = cell.Default, cell.Default, cell.Attributes{}
		case code == 1:
			attrs.Bold = true
		case code == 2:
			attrs.Dim = true
		case code == 3:
			attrs.Italic = true
		case code == 4:
			attrs.Underline = true
		case code == 5:
			attrs.Blink = true
		case code == 7:
			attrs.Reverse = true
		case code == 8:
			attrs.Hidden = true
		case code == 9:
			attrs.Strikethrough = true
		case code == 22:
			attrs.Bold = false
			attrs.Dim = false
		case code == 23:
			attrs.Italic = false
		case code == 24:
			attrs.Underline = false
		case code == 25:
			attrs.Blink = false
		case code == 27:
			attrs.Reverse = false
		case code == 28:
			attrs.Hidden = false
		case code == 29:
			attrs.Strikethrough = false
		case code >= 30 && code <= 37:
			fg = cell.ANSI(code - 30)
		case code == 38:
			var consumed int
			fg, consumed = p.extendedColor(i + 1)
			i += consumed
		case code == 39:
			fg = cell.Default
		case code >= 40 && code <= 47:
			bg = cell.ANSI(code - 40)
		case code == 48:
			var consumed int
			bg, consumed = p.extendedColor(i + 1)
			i += consumed
		case code == 49:
			bg = cell.Default
		case code >= 90 && code <= 97:
			fg = cell.BrightANSI(code - 90)
		case code >= 100 && code <= 107:
			bg = cell.BrightANSI(code - 100)
		}
	}

	p.grid.SetCurrentStyle(fg, bg, attrs)
}

func (p *Parser) applySGRReset() {
	p.grid.SetCurrentStyle(cell.Default, cell.Default, cell.Attributes{})
}

// extendedColor consumes the 256-indexed (5;n) or true-color (2;r;g;b)
// sub-mode starting at params[from]. Returns the color and how many
// extra params (beyond the 38/48 code itself) were consumed.
func (p *Parser) extendedColor(from int) (cell.Color, int) {
	if from >= len(p.params) {
		return cell.Default, 0
	}
	switch p.params[from] {
	case 5:
		if from+1 < len(p.params) {
			idx := p.params[from+1]
			if idx < 0 {
				idx = 0
			}
			return cell.Indexed(uint8(idx)), 2
		}
		return cell.Default, 1
	case 2:
		if from+3 < len(p.params) {
			r, g, b := p.params[from+1], p.params[from+2], p.params[from+3]
			return cell.RGB(clampByte(r), clampByte(g), clampByte(b)), 4
		}
		return cell.Default, 1
	}
	return cell.Default, 0
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Reset discards any in-flight escape sequence and returns to ground
// state without touching the grid.
func (p *Parser) Reset() {
	p.state = stateGround
	p.params = nil
	p.curNum = ""
}

