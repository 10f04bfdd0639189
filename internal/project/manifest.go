// Package project loads sigil.toml, the per-project manifest that
// configures checking and pre-declares the classes annotation files
// may reference.
package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"sigil/internal/symbols"
)

// DefaultMaxDiagnostics bounds the diagnostic bag when the manifest
// does not set [check].max_diagnostics.
const DefaultMaxDiagnostics = 200

// Manifest is the decoded sigil.toml.
type Manifest struct {
	Check   CheckConfig   `toml:"check"`
	Symbols SymbolsConfig `toml:"symbols"`
}

// CheckConfig is the [check] section.
type CheckConfig struct {
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Jobs           int      `toml:"jobs"`
	Fixtures       []string `toml:"fixtures"`
}

// SymbolsConfig is the [symbols] section: class declarations like
// "Box[K, V]" or "Outer::Inner", plus aliases mapping a constant name
// to an already-declared class path.
type SymbolsConfig struct {
	Classes []string          `toml:"classes"`
	Aliases map[string]string `toml:"aliases"`
}

var (
	// ErrBadClassDecl indicates a malformed entry in [symbols].classes.
	ErrBadClassDecl = errors.New("malformed class declaration")
	// ErrBadAliasTarget indicates an alias pointing at an undeclared class.
	ErrBadAliasTarget = errors.New("alias target is not a declared class")
)

// LoadManifest parses sigil.toml. Unknown knobs are rejected so a typo
// does not silently fall back to defaults. The maximum proc arity is a
// fixed registry constant and deliberately has no manifest override.
func LoadManifest(path string) (Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Manifest{}, fmt.Errorf("%s: unknown manifest key %q", path, undecoded[0].String())
	}
	if m.Check.MaxDiagnostics < 0 {
		return Manifest{}, fmt.Errorf("%s: [check].max_diagnostics must be non-negative", path)
	}
	if m.Check.MaxDiagnostics == 0 {
		m.Check.MaxDiagnostics = DefaultMaxDiagnostics
	}
	if m.Check.Jobs < 0 {
		return Manifest{}, fmt.Errorf("%s: [check].jobs must be non-negative", path)
	}
	return m, nil
}

// Declare seeds the symbol table with the manifest's classes and
// aliases. Classes are declared in order, so a nested path only needs
// its parents listed first; missing parents are created as plain
// classes on the way down.
func (m Manifest) Declare(table *symbols.Table) error {
	for _, decl := range m.Symbols.Classes {
		if err := declareClass(table, decl); err != nil {
			return err
		}
	}
	for name, target := range m.Symbols.Aliases {
		sym, ok := lookupPath(table, target)
		if !ok || !table.IsClass(sym) {
			return fmt.Errorf("alias %s = %q: %w", name, target, ErrBadAliasTarget)
		}
		table.NewStaticField(table.Root(), name, sym)
	}
	return nil
}

// declareClass parses "Outer::Inner[K, V]" and registers the class.
func declareClass(table *symbols.Table, decl string) error {
	path := strings.TrimSpace(decl)
	var members []string
	if open := strings.IndexByte(path, '['); open >= 0 {
		if !strings.HasSuffix(path, "]") {
			return fmt.Errorf("%q: %w", decl, ErrBadClassDecl)
		}
		for _, m := range strings.Split(path[open+1:len(path)-1], ",") {
			m = strings.TrimSpace(m)
			if m == "" {
				return fmt.Errorf("%q: %w", decl, ErrBadClassDecl)
			}
			members = append(members, m)
		}
		path = strings.TrimSpace(path[:open])
	}
	segments := strings.Split(path, "::")
	owner := table.Root()
	for i, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" || seg[0] < 'A' || seg[0] > 'Z' {
			return fmt.Errorf("%q: %w", decl, ErrBadClassDecl)
		}
		last := i == len(segments)-1
		if existing, ok := table.Child(owner, seg); ok {
			if last && len(members) > 0 {
				return fmt.Errorf("%q: %w (already declared)", decl, ErrBadClassDecl)
			}
			owner = existing
			continue
		}
		if last {
			owner = table.NewClass(owner, seg, members...)
		} else {
			owner = table.NewClass(owner, seg)
		}
	}
	return nil
}

func lookupPath(table *symbols.Table, path string) (symbols.SymbolID, bool) {
	sym := table.Root()
	for _, seg := range strings.Split(path, "::") {
		child, ok := table.Child(sym, strings.TrimSpace(seg))
		if !ok {
			return symbols.NoSymbolID, false
		}
		sym = child
	}
	return sym, true
}
