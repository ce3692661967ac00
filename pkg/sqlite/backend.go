// Package sqlite is the public entry point to the SQLite note store for
// programs that embed playnotes instead of calling its endpoint.
package sqlite

import (
	"github.com/mesh-intelligence/playnotes/internal/sqlite"
	"github.com/mesh-intelligence/playnotes/pkg/types"
)

// NewBackend returns a detached backend; call Attach before use.
func NewBackend() types.Backend {
	return sqlite.NewBackend()
}

// Open attaches a backend for cfg and creates the workbook of every user in
// cfg.Users, the same startup the playnotes server performs. Callers Detach
// the result when done.
//
//	backend, err := sqlite.Open(cfg)
//	if err != nil {
//		return err
//	}
//	defer backend.Detach()
func Open(cfg types.Config) (types.Backend, error) {
	b := sqlite.NewBackend()
	if err := b.Attach(cfg); err != nil {
		return nil, err
	}
	if _, err := b.SeedWorkbooks(cfg.Users); err != nil {
		b.Detach()
		return nil, err
	}
	return b, nil
}
