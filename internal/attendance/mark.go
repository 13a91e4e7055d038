// Package attendance converts wide attendance worksheets into long-form
// records and aggregates them into presence, tardy and absence rates.
//
// Everything in this package is pure: no I/O, no shared state.
package attendance

import "github.com/BladMendez/asistencia-mec-nica/internal/types"

// Persisted cell symbols.
const (
	SymbolPresent = "✓"
	SymbolTardy   = "~"
	SymbolAbsent  = "✗"
)

// Normalize maps a raw cell value to a mark. The check and cross symbols are
// matched as-is; the tardy marker also accepts "r" in either case. Anything
// else is MarkUnknown.
func Normalize(raw string) types.Mark {
	switch raw {
	case SymbolPresent:
		return types.MarkPresent
	case SymbolTardy, "r", "R":
		return types.MarkTardy
	case SymbolAbsent:
		return types.MarkAbsent
	}
	return types.MarkUnknown
}

// Symbol returns the cell value written for a mark, "" for MarkUnknown.
func Symbol(m types.Mark) string {
	switch m {
	case types.MarkPresent:
		return SymbolPresent
	case types.MarkTardy:
		return SymbolTardy
	case types.MarkAbsent:
		return SymbolAbsent
	}
	return ""
}
