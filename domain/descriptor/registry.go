// Package descriptor defines the fixed registry of molecular descriptors the
// pipeline can compute. Names outside the registry are rejected when the
// configuration is validated, never while records are being processed.
package descriptor

import (
	"strings"

	"gobioact/domain/core"
	"gobioact/ports"
)

// Name identifies a registered descriptor
type Name string

const (
	MW            Name = "MW"
	LogP          Name = "LogP"
	NumHDonors    Name = "NumHDonors"
	NumHAcceptors Name = "NumHAcceptors"
)

var registry = [...]Name{MW, LogP, NumHDonors, NumHAcceptors}

// Func computes a descriptor from a parsed molecule
type Func func(ports.Molecule) float64

// All returns every registered descriptor in canonical order
func All() []Name {
	out := make([]Name, len(registry))
	copy(out, registry[:])
	return out
}

// String returns the column name used in exported tables
func (n Name) String() string {
	return string(n)
}

// Description returns a short human-readable label
func (n Name) Description() string {
	switch n {
	case MW:
		return "Molecular weight"
	case LogP:
		return "Octanol-water partition coefficient"
	case NumHDonors:
		return "Hydrogen bond donors"
	case NumHAcceptors:
		return "Hydrogen bond acceptors"
	}
	return ""
}

// Func returns the evaluation function for a registered descriptor
func (n Name) Func() (Func, bool) {
	switch n {
	case MW:
		return func(m ports.Molecule) float64 { return m.MolecularWeight() }, true
	case LogP:
		return func(m ports.Molecule) float64 { return m.LogP() }, true
	case NumHDonors:
		return func(m ports.Molecule) float64 { return float64(m.HBondDonors()) }, true
	case NumHAcceptors:
		return func(m ports.Molecule) float64 { return float64(m.HBondAcceptors()) }, true
	}
	return nil, false
}

// Valid reports whether n is in the registry
func (n Name) Valid() bool {
	_, ok := n.Func()
	return ok
}

// Parse resolves a single descriptor name; matching is exact
func Parse(s string) (Name, error) {
	n := Name(strings.TrimSpace(s))
	if !n.Valid() {
		return "", core.NewUnknownDescriptorError(s)
	}
	return n, nil
}

// ParseList resolves a comma-separated list. An empty list selects all descriptors.
func ParseList(s string) ([]Name, error) {
	if strings.TrimSpace(s) == "" {
		return All(), nil
	}
	parts := strings.Split(s, ",")
	names := make([]Name, 0, len(parts))
	for _, p := range parts {
		names = append(names, Name(strings.TrimSpace(p)))
	}
	return Validate(names)
}

// Validate checks a requested ordered set against the registry. An empty request
// selects all descriptors; duplicates are rejected.
func Validate(names []Name) ([]Name, error) {
	if len(names) == 0 {
		return All(), nil
	}
	seen := make(map[Name]bool, len(names))
	out := make([]Name, 0, len(names))
	for _, n := range names {
		if !n.Valid() {
			return nil, core.NewUnknownDescriptorError(string(n))
		}
		if seen[n] {
			return nil, core.NewValidationError("descriptors", "duplicate descriptor "+string(n))
		}
		seen[n] = true
		out = append(out, n)
	}
	return out, nil
}

// Strings converts names to plain strings
func Strings(names []Name) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}
