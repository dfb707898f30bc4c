package domain_test

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/benv-dev/benv/internal/core/domain"
)

func TestShellDialect_Quote(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain value",
			input:    "vim",
			expected: "'vim'",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "''",
		},
		{
			name:     "value with spaces",
			input:    "hello world",
			expected: "'hello world'",
		},
		{
			name:     "embedded single quote",
			input:    "it's",
			expected: `'it'\''s'`,
		},
		{
			name:     "command substitution stays literal",
			input:    "$(evil)",
			expected: "'$(evil)'",
		},
		{
			// The input is the two literal characters backslash and quote
			// followed by "baz". The backslash must not be reinterpreted as
			// escaping the quote.
			name:     "literal backslash before quote",
			input:    `\'baz`,
			expected: `'\'\''baz'`,
		},
		{
			name:     "run of single quotes",
			input:    "'''",
			expected: `''\'''\'''\'''`,
		},
		{
			name:     "trailing backslash",
			input:    `value\`,
			expected: `'value\'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, dialect := range []domain.ShellDialect{domain.DialectPOSIX, domain.DialectBash, domain.DialectZsh} {
				got := dialect.Quote(tt.input)
				if got != tt.expected {
					t.Errorf("%s.Quote(%q) = %q, want %q", dialect, tt.input, got, tt.expected)
				}
			}
		})
	}
}

// TestShellDialect_Quote_RoundTrip feeds quoted literals back through a real
// POSIX shell and asserts the parsed value equals the original input.
func TestShellDialect_Quote_RoundTrip(t *testing.T) {
	shPath, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	inputs := []string{
		"",
		"plain",
		"it's",
		`\'baz`,
		`\\''\`,
		"a'b'c'd",
		"$HOME `whoami` $(id)",
		"newline\nand\ttab",
		"unicode ✓ value",
	}

	for _, input := range inputs {
		quoted := domain.DialectPOSIX.Quote(input)
		out, err := exec.Command(shPath, "-c", "printf '%s' "+quoted).Output()
		if err != nil {
			t.Fatalf("sh failed for input %q (quoted %q): %v", input, quoted, err)
		}
		if string(out) != input {
			t.Errorf("round trip of %q: shell parsed %q from literal %q", input, out, quoted)
		}
	}
}

func TestShellDialect_String(t *testing.T) {
	if got := domain.DialectBash.String(); got != "bash" {
		t.Errorf("expected bash, got %s", got)
	}
	if got := domain.DialectZsh.String(); got != "zsh" {
		t.Errorf("expected zsh, got %s", got)
	}
	if got := domain.DialectPOSIX.String(); got != "sh" {
		t.Errorf("expected sh, got %s", got)
	}
	if !strings.Contains(domain.ShellDialect(99).String(), "unknown") {
		t.Error("expected unknown for out-of-range dialect")
	}
}
