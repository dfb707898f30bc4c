package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// EnvironmentID computes a deterministic identity for the environment a
// lockfile describes. Two lockfiles resolving the same packages at the same
// priorities in the same order produce the same ID, so concurrent builds of
// distinct lockfiles never share a staging directory.
func (l *Lockfile) EnvironmentID() string {
	var builder strings.Builder
	builder.WriteString(l.System)
	builder.WriteString(";")
	for i := range l.Packages {
		pkg := &l.Packages[i]
		builder.WriteString(pkg.ID())
		builder.WriteString(":")
		builder.WriteString(strconv.Itoa(pkg.Priority))
		builder.WriteString(":")
		builder.WriteString(pkg.OutputPath)
		builder.WriteString(";")
	}

	hash := sha256.Sum256([]byte(builder.String()))
	return hex.EncodeToString(hash[:])
}
