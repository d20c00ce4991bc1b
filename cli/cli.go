// Package cli scans subcommand arguments best-effort.
//
// Three flag shapes are understood:
//
//	--name N       valued flag; the next token is the value (--name=N also works)
//	--name         switch
//	--name=word    choice; the word after '=' picks one of a fixed set
//
// Unknown tokens are skipped. A value without leading digits leaves the
// target at its default; trailing garbage after the digits is ignored.
package cli

import (
	"strings"

	"memlab/debug"
	"memlab/utils"
)

type kind uint8

const (
	kindUint kind = iota
	kindInt
	kindString
)

type valued struct {
	kind kind
	u    *uint64
	i    *int
	s    *string
}

// Scanner binds flag names to destinations, then Scan fills them.
type Scanner struct {
	values   map[string]*valued
	switches map[string]func()
	choices  map[string]func(string) bool
}

// New returns an empty Scanner.
func New() *Scanner {
	return &Scanner{
		values:   map[string]*valued{},
		switches: map[string]func(){},
		choices:  map[string]func(string) bool{},
	}
}

// Uint binds --name N to *dst.
func (s *Scanner) Uint(name string, dst *uint64) {
	s.values[name] = &valued{kind: kindUint, u: dst}
}

// Int binds --name N to *dst. A leading '-' is honoured.
func (s *Scanner) Int(name string, dst *int) {
	s.values[name] = &valued{kind: kindInt, i: dst}
}

// String binds --name V to *dst verbatim.
func (s *Scanner) String(name string, dst *string) {
	s.values[name] = &valued{kind: kindString, s: dst}
}

// Switch runs fn whenever --name appears.
func (s *Scanner) Switch(name string, fn func()) {
	s.switches[name] = fn
}

// Bool sets *dst when --name appears.
func (s *Scanner) Bool(name string, dst *bool) {
	s.switches[name] = func() { *dst = true }
}

// Choice hands the word of --name=word to fn. fn reports whether the word
// was recognised; unrecognised words are skipped like unknown flags.
func (s *Scanner) Choice(name string, fn func(word string) bool) {
	s.choices[name] = fn
}

// Scan walks args once, applying every recognised flag in order. Later
// occurrences win.
func (s *Scanner) Scan(args []string) {
	for i := 0; i < len(args); i++ {
		tok := args[i]

		if fn, ok := s.switches[tok]; ok {
			fn()
			continue
		}
		if v, ok := s.values[tok]; ok {
			if i+1 >= len(args) {
				debug.DropDebug("flag without value", debug.Fields{"flag": tok})
				break
			}
			i++
			apply(v, args[i])
			continue
		}
		if name, word, ok := strings.Cut(tok, "="); ok {
			if fn, ok := s.choices[name]; ok {
				if !fn(word) {
					debug.DropDebug("unrecognised choice skipped", debug.Fields{"flag": name, "value": word})
				}
				continue
			}
			if v, ok := s.values[name]; ok {
				apply(v, word)
				continue
			}
		}
		debug.DropDebug("unknown argument skipped", debug.Fields{"arg": tok})
	}
}

func apply(v *valued, raw string) {
	switch v.kind {
	case kindUint:
		if n, ok := utils.ParseUintPrefix(raw); ok {
			*v.u = n
		}
	case kindInt:
		if n, ok := utils.ParseIntPrefix(raw); ok {
			*v.i = n
		}
	case kindString:
		*v.s = raw
	}
}
