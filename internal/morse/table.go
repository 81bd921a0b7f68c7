// Package morse implements the timing classifier and the Morse symbol table.
package morse

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Glyphs used in the symbol buffer.
const (
	Dot       = '*'
	Dash      = '—'
	Separator = ' '
)

var (
	// ErrDuplicateCode indicates two table entries share a code.
	ErrDuplicateCode = errors.New("duplicate morse code")
	// ErrDuplicateChar indicates two table entries share a character.
	ErrDuplicateChar = errors.New("duplicate character")
	// ErrInvalidCode indicates a code with glyphs other than dot and dash.
	ErrInvalidCode = errors.New("invalid morse code")
	// ErrUnencodable indicates text contains characters missing from the table.
	ErrUnencodable = errors.New("no morse code for character")
)

// Entry is a single code/character pair.
type Entry struct {
	Code string
	Char rune
}

// Table is an immutable mapping between codes and characters.
type Table struct {
	byCode  map[string]rune
	byChar  map[rune]string
	entries []Entry
}

// NewTable builds a table from entries. Codes and characters must be unique.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{
		byCode:  make(map[string]rune, len(entries)),
		byChar:  make(map[rune]string, len(entries)),
		entries: make([]Entry, 0, len(entries)),
	}
	for _, e := range entries {
		if !validCode(e.Code) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCode, e.Code)
		}
		if prev, ok := t.byCode[e.Code]; ok {
			return nil, fmt.Errorf("%w: %q used by %q and %q", ErrDuplicateCode, e.Code, prev, e.Char)
		}
		if _, ok := t.byChar[e.Char]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateChar, e.Char)
		}
		t.byCode[e.Code] = e.Char
		t.byChar[e.Char] = e.Code
		t.entries = append(t.entries, e)
	}
	sort.Slice(t.entries, func(i, j int) bool {
		return t.entries[i].Char < t.entries[j].Char
	})
	return t, nil
}

func validCode(code string) bool {
	if code == "" {
		return false
	}
	for _, r := range code {
		if r != Dot && r != Dash {
			return false
		}
	}
	return true
}

// Lookup returns the character for a code.
func (t *Table) Lookup(code string) (rune, bool) {
	r, ok := t.byCode[code]
	return r, ok
}

// Code returns the code for a character. Letters are matched case-insensitively.
func (t *Table) Code(r rune) (string, bool) {
	r = foldChar(r)
	code, ok := t.byChar[r]
	return code, ok
}

// Entries returns the table entries ordered by character.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Encode converts text to a symbol buffer. Letters are separated by a single
// separator and a space in the text becomes an empty token, which decodes back
// to a space.
func (t *Table) Encode(text string) (string, error) {
	tokens := make([]string, 0, len(text))
	var missing []rune
	for _, r := range text {
		if r == ' ' {
			tokens = append(tokens, "")
			continue
		}
		code, ok := t.Code(r)
		if !ok {
			missing = append(missing, r)
			continue
		}
		tokens = append(tokens, code)
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %q", ErrUnencodable, string(missing))
	}
	return strings.Join(tokens, string(Separator)), nil
}

func foldChar(r rune) rune {
	r = unicode.ToUpper(r)
	if r == 'Ё' {
		return 'Е'
	}
	return r
}

// Cyrillic returns the Russian Morse table.
func Cyrillic() *Table {
	return cyrillicTable
}

var cyrillicTable = mustTable(cyrillicEntries)

var cyrillicEntries = []Entry{
	{"*—", 'А'},
	{"—***", 'Б'},
	{"*——", 'В'},
	{"——*", 'Г'},
	{"—**", 'Д'},
	{"*", 'Е'},
	{"***—", 'Ж'},
	{"——**", 'З'},
	{"**", 'И'},
	{"*———", 'Й'},
	{"—*—", 'К'},
	{"*—**", 'Л'},
	{"——", 'М'},
	{"—*", 'Н'},
	{"———", 'О'},
	{"*——*", 'П'},
	{"*—*", 'Р'},
	{"***", 'С'},
	{"—", 'Т'},
	{"**—", 'У'},
	{"**—*", 'Ф'},
	{"****", 'Х'},
	{"—*—*", 'Ц'},
	{"———*", 'Ч'},
	{"————", 'Ш'},
	{"——*—", 'Щ'},
	{"*——*—*", 'Ъ'},
	{"—*——", 'Ы'},
	{"—**—", 'Ь'},
	{"**—**", 'Э'},
	{"**——", 'Ю'},
	{"*—*—", 'Я'},
}

func mustTable(entries []Entry) *Table {
	t, err := NewTable(entries)
	if err != nil {
		panic(err)
	}
	return t
}
