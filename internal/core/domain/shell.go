package domain

import "strings"

// ShellDialect identifies a target shell for generated activation scripts.
// The set is closed: each dialect carries its own quoting rules and there is
// no user-extensible dispatch.
type ShellDialect int

const (
	// DialectPOSIX targets POSIX sh, used for the profile.d fragment.
	DialectPOSIX ShellDialect = iota
	// DialectBash targets bash.
	DialectBash
	// DialectZsh targets zsh.
	DialectZsh
)

// ActivationDialects are the dialects that receive a script under activate/.
var ActivationDialects = []ShellDialect{DialectBash, DialectZsh}

// String returns the conventional name of the dialect.
func (d ShellDialect) String() string {
	switch d {
	case DialectPOSIX:
		return "sh"
	case DialectBash:
		return "bash"
	case DialectZsh:
		return "zsh"
	default:
		return "unknown"
	}
}

// Quote converts raw into a single shell literal for the dialect such that
// `export NAME=<literal>` reproduces raw exactly when parsed.
//
// The input is treated as an opaque byte string: a backslash followed by a
// single quote in raw is two literal characters to preserve, never an
// "already escaped" quote. Getting this wrong silently corrupts exported
// values, so all escaping goes through this one function.
func (d ShellDialect) Quote(raw string) string {
	switch d {
	case DialectPOSIX, DialectBash, DialectZsh:
		return quoteSingle(raw)
	default:
		// Unreachable for the closed set; fail safe by quoting as POSIX.
		return quoteSingle(raw)
	}
}

// quoteSingle wraps raw in single quotes. Embedded single quotes close the
// literal, emit a backslash-escaped quote, and reopen it ('\''), which every
// sh-family dialect parses back to the original byte.
func quoteSingle(raw string) string {
	return "'" + strings.ReplaceAll(raw, "'", `'\''`) + "'"
}
