// Package ports defines the core interfaces for the application.
package ports

import "github.com/benv-dev/benv/internal/core/domain"

// LockfileLoader resolves a lockfile argument into domain form.
//
// The argument is accepted either as a filesystem path or as inline
// serialized lockfile content; implementations decide transparently.
//
//go:generate go run go.uber.org/mock/mockgen -source=lockfile_loader.go -destination=mocks/mock_lockfile_loader.go -package=mocks
type LockfileLoader interface {
	// Load parses and structurally validates the lockfile.
	//
	// Validation covers the whole package list: a lockfile with no packages,
	// a package whose output tree is missing, or a declared hook/on-activate
	// script that does not exist all fail before any output is written.
	Load(arg string) (*domain.Lockfile, error)
}
