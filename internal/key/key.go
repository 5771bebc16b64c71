// Package key implements the symbolic Key model: textual parsing and
// byte-sequence encoding for keystrokes sent to a PTY.
package key

import (
	"fmt"
	"strings"

	"github.com/tstmcp/terminal-mcp/internal/txerr"
)

// Name is one of the non-modifier, non-character key identities.
type Name int

const (
	NameNone Name = iota
	NameUp
	NameDown
	NameLeft
	NameRight
	NameHome
	NameEnd
	NamePageUp
	NamePageDown
	NameEnter
	NameTab
	NameEscape
	NameBackspace
	NameDelete
	NameSpace
	NameInsert
	NameF1
	NameF2
	NameF3
	NameF4
	NameF5
	NameF6
	NameF7
	NameF8
	NameF9
	NameF10
	NameF11
	NameF12
)

// ModKind discriminates the modifier wrappers.
type ModKind int

const (
	ModNone ModKind = iota
	ModCtrl
	ModAlt
	ModShift
	ModCtrlAlt
)

// Key is the symbolic key sum type: a plain character, a named key, or a
// named/character key under a modifier.
type Key struct {
	// Exactly one of Char/Named is meaningful: Char when IsChar is set,
	// Named otherwise.
	IsChar bool
	Char   rune
	Named  Name

	Mod ModKind
	// Inner is set only when Mod == ModShift and holds the unshifted key,
	// named or character (e.g. Tab for Shift+Tab).
	Inner *Key
}

// Plain builds an unmodified character key.
func Plain(ch rune) Key { return Key{IsChar: true, Char: ch} }

// Of builds an unmodified named key.
func Of(n Name) Key { return Key{Named: n} }

// Ctrl builds a Ctrl+<ch> key.
func Ctrl(ch rune) Key { return Key{IsChar: true, Char: ch, Mod: ModCtrl} }

// Alt builds an Alt+<ch> key.
func Alt(ch rune) Key { return Key{IsChar: true, Char: ch, Mod: ModAlt} }

// CtrlAlt builds a Ctrl+Alt+<ch> key.
func CtrlAlt(ch rune) Key { return Key{IsChar: true, Char: ch, Mod: ModCtrlAlt} }

// Shift wraps any key with the Shift modifier.
func Shift(inner Key) Key {
	k := inner
	k.Mod = ModShift
	k.Inner = &inner
	return k
}

var namedAliases = map[string]Name{
	"up": NameUp, "down": NameDown, "left": NameLeft, "right": NameRight,
	"home": NameHome, "end": NameEnd,
	"pageup": NamePageUp, "pgup": NamePageUp,
	"pagedown": NamePageDown, "pgdn": NamePageDown,
	"enter": NameEnter, "return": NameEnter,
	"tab": NameTab,
	"escape": NameEscape, "esc": NameEscape,
	"backspace": NameBackspace,
	"delete":    NameDelete, "del": NameDelete,
	"space":  NameSpace,
	"insert": NameInsert, "ins": NameInsert,
	"f1": NameF1, "f2": NameF2, "f3": NameF3, "f4": NameF4,
	"f5": NameF5, "f6": NameF6, "f7": NameF7, "f8": NameF8,
	"f9": NameF9, "f10": NameF10, "f11": NameF11, "f12": NameF12,
}

// Parse interprets a key's textual form: Ctrl+/Alt+/Shift+ prefixes
// (recursively), a named key from the alias table, or a single character.
func Parse(text string) (Key, error) {
	if strings.HasPrefix(text, "Ctrl+") {
		rest := text[len("Ctrl+"):]
		if len([]rune(rest)) != 1 {
			// Ctrl+ only composes directly with a bare character; a
			// further Alt+ gives CtrlAlt.
			if strings.HasPrefix(rest, "Alt+") {
				inner := rest[len("Alt+"):]
				r := []rune(inner)
				if len(r) == 1 {
					return CtrlAlt(toLower(r[0])), nil
				}
			}
			return Key{}, txerr.New(txerr.KindInvalidKey, "%s", text)
		}
		return Ctrl(toLower([]rune(rest)[0])), nil
	}
	if strings.HasPrefix(text, "Alt+") {
		rest := text[len("Alt+"):]
		r := []rune(rest)
		if len(r) == 1 {
			return Alt(r[0]), nil
		}
		return Key{}, txerr.New(txerr.KindInvalidKey, "%s", text)
	}
	if strings.HasPrefix(text, "Shift+") {
		rest := text[len("Shift+"):]
		inner, err := Parse(rest)
		if err != nil {
			return Key{}, txerr.New(txerr.KindInvalidKey, "%s", text)
		}
		return Shift(inner), nil
	}

	if n, ok := namedAliases[strings.ToLower(text)]; ok {
		return Of(n), nil
	}

	r := []rune(text)
	if len(r) == 1 {
		return Plain(r[0]), nil
	}

	return Key{}, txerr.New(txerr.KindInvalidKey, "%s", text)
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// namedBytes returns the byte encoding of an unmodified named key.
func namedBytes(n Name) ([]byte, bool) {
	switch n {
	case NameEnter:
		return []byte{0x0D}, true
	case NameTab:
		return []byte{0x09}, true
	case NameEscape:
		return []byte{0x1B}, true
	case NameBackspace:
		return []byte{0x7F}, true
	case NameSpace:
		return []byte{0x20}, true
	case NameDelete:
		return []byte{0x1B, 0x5B, 0x33, 0x7E}, true
	case NameInsert:
		return []byte{0x1B, 0x5B, 0x32, 0x7E}, true
	case NameUp:
		return []byte{0x1B, 0x5B, 'A'}, true
	case NameDown:
		return []byte{0x1B, 0x5B, 'B'}, true
	case NameRight:
		return []byte{0x1B, 0x5B, 'C'}, true
	case NameLeft:
		return []byte{0x1B, 0x5B, 'D'}, true
	case NameHome:
		return []byte{0x1B, 0x5B, 0x48}, true
	case NameEnd:
		return []byte{0x1B, 0x5B, 0x46}, true
	case NamePageUp:
		return []byte{0x1B, 0x5B, 0x35, 0x7E}, true
	case NamePageDown:
		return []byte{0x1B, 0x5B, 0x36, 0x7E}, true
	case NameF1:
		return []byte{0x1B, 0x4F, 'P'}, true
	case NameF2:
		return []byte{0x1B, 0x4F, 'Q'}, true
	case NameF3:
		return []byte{0x1B, 0x4F, 'R'}, true
	case NameF4:
		return []byte{0x1B, 0x4F, 'S'}, true
	case NameF5:
		return []byte{0x1B, 0x5B, 0x31, 0x35, 0x7E}, true
	case NameF6:
		return []byte{0x1B, 0x5B, 0x31, 0x37, 0x7E}, true
	case NameF7:
		return []byte{0x1B, 0x5B, 0x31, 0x38, 0x7E}, true
	case NameF8:
		return []byte{0x1B, 0x5B, 0x31, 0x39, 0x7E}, true
	case NameF9:
		return []byte{0x1B, 0x5B, 0x32, 0x30, 0x7E}, true
	case NameF10:
		return []byte{0x1B, 0x5B, 0x32, 0x31, 0x7E}, true
	case NameF11:
		return []byte{0x1B, 0x5B, 0x32, 0x33, 0x7E}, true
	case NameF12:
		return []byte{0x1B, 0x5B, 0x32, 0x34, 0x7E}, true
	}
	return nil, false
}

// Encode returns the exact byte sequence a PTY expects for k.
func Encode(k Key) []byte {
	switch k.Mod {
	case ModCtrl:
		return []byte{byte(toLower(k.Char) - 'a' + 1)}
	case ModAlt:
		return append([]byte{0x1B}, []byte(string(k.Char))...)
	case ModCtrlAlt:
		ctrlByte := byte(toLower(k.Char) - 'a' + 1)
		return []byte{0x1B, ctrlByte}
	case ModShift:
		if k.Inner != nil {
			switch k.Inner.Named {
			case NameTab:
				return []byte{0x1B, 0x5B, 0x5A}
			case NameUp:
				return []byte{0x1B, 0x5B, 0x31, 0x3B, 0x32, 'A'}
			case NameDown:
				return []byte{0x1B, 0x5B, 0x31, 0x3B, 0x32, 'B'}
			case NameRight:
				return []byte{0x1B, 0x5B, 0x31, 0x3B, 0x32, 'C'}
			case NameLeft:
				return []byte{0x1B, 0x5B, 0x31, 0x3B, 0x32, 'D'}
			}
			return Encode(*k.Inner)
		}
		return nil
	}

	if k.IsChar {
		return []byte(string(k.Char))
	}
	if b, ok := namedBytes(k.Named); ok {
		return b
	}
	return nil
}

// Display renders k back to its textual form (best-effort, used for
// reporting the key sequence a click computed).
func Display(k Key) string {
	prefix := ""
	switch k.Mod {
	case ModCtrl:
		prefix = "Ctrl+"
	case ModAlt:
		prefix = "Alt+"
	case ModCtrlAlt:
		prefix = "Ctrl+Alt+"
	case ModShift:
		prefix = "Shift+"
	}

	if k.Mod == ModShift && k.Inner != nil {
		return prefix + Display(*k.Inner)
	}
	if k.IsChar {
		return fmt.Sprintf("%s%c", prefix, k.Char)
	}
	for alias, n := range namedAliases {
		if n == k.Named && canonicalAlias(alias, n) {
			return prefix + capitalize(alias)
		}
	}
	return prefix + "?"
}

// canonicalAlias filters out the short/duplicate aliases so Display picks
// one canonical spelling per name.
func canonicalAlias(alias string, n Name) bool {
	canonical := map[Name]string{
		NameUp: "up", NameDown: "down", NameLeft: "left", NameRight: "right",
		NameHome: "home", NameEnd: "end", NamePageUp: "pageup", NamePageDown: "pagedown",
		NameEnter: "enter", NameTab: "tab", NameEscape: "escape",
		NameBackspace: "backspace", NameDelete: "delete", NameSpace: "space",
		NameInsert: "insert",
		NameF1: "f1", NameF2: "f2", NameF3: "f3", NameF4: "f4",
		NameF5: "f5", NameF6: "f6", NameF7: "f7", NameF8: "f8",
		NameF9: "f9", NameF10: "f10", NameF11: "f11", NameF12: "f12",
	}
	return canonical[n] == alias
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
