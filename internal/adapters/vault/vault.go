// Package vault implements ports.Vault over an fs.FS.
package vault

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"go.trai.ch/tasklens/internal/core/domain"
	"go.trai.ch/tasklens/internal/core/ports"
	"go.trai.ch/zerr"
)

// skipDirs are never listed by Files.
var skipDirs = map[string]bool{
	".git":         true,
	".obsidian":    true,
	".trash":       true,
	"node_modules": true,
}

// FSVault implements ports.Vault on top of an fs.FS rooted at the vault directory.
type FSVault struct {
	fsys fs.FS
}

var _ ports.Vault = (*FSVault)(nil)

// New returns a vault backed by fsys. Tests pass an fstest.MapFS.
func New(fsys fs.FS) *FSVault {
	return &FSVault{fsys: fsys}
}

// NewOS returns a vault backed by the directory at root.
func NewOS(root string) *FSVault {
	return New(os.DirFS(root))
}

// Read returns the content of the file at p.
func (v *FSVault) Read(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := toFSPath(p)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(v.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(domain.ErrFileNotFound, "path", p)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrVaultReadFailed.Error()), "path", p)
	}
	return data, nil
}

// Lookup returns the entry at p.
func (v *FSVault) Lookup(p string) (ports.Entry, bool) {
	name, err := toFSPath(p)
	if err != nil {
		return ports.Entry{}, false
	}
	info, err := fs.Stat(v.fsys, name)
	if err != nil {
		return ports.Entry{}, false
	}
	return entryOf(fromFSPath(name), info), true
}

// Children lists the direct children of dir.
func (v *FSVault) Children(dir string) ([]ports.Entry, error) {
	name, err := toFSPath(dir)
	if err != nil {
		return nil, err
	}
	des, err := fs.ReadDir(v.fsys, name)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrVaultReadFailed.Error()), "dir", dir)
	}
	out := make([]ports.Entry, 0, len(des))
	for _, de := range des {
		info, err := de.Info()
		if err != nil {
			continue
		}
		out = append(out, entryOf(domain.JoinVaultPath(fromFSPath(name), de.Name()), info))
	}
	return out, nil
}

// Files lists every file in the vault, skipping tool directories.
func (v *FSVault) Files(ctx context.Context) ([]ports.Entry, error) {
	var out []ports.Entry
	err := fs.WalkDir(v.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if p != "." && skipDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		out = append(out, entryOf(p, info))
		return nil
	})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to walk vault")
	}
	slices.SortFunc(out, func(a, b ports.Entry) int { return strings.Compare(a.Path, b.Path) })
	return out, nil
}

func entryOf(p string, info fs.FileInfo) ports.Entry {
	return ports.Entry{
		Path:    p,
		Name:    path.Base(p),
		ModTime: info.ModTime().UnixMilli(),
		IsDir:   info.IsDir(),
	}
}

// toFSPath converts a vault path into an fs.FS name.
func toFSPath(p string) (string, error) {
	p = strings.Trim(p, "/")
	if p == "" {
		return ".", nil
	}
	p = path.Clean(p)
	if !fs.ValidPath(p) {
		return "", zerr.With(domain.ErrInvalidVaultPath, "path", p)
	}
	return p, nil
}

func fromFSPath(name string) string {
	if name == "." {
		return ""
	}
	return name
}
