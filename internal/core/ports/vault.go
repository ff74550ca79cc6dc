package ports

import "context"

// Entry describes a vault file or directory.
type Entry struct {
	// Path is vault-relative with forward slashes.
	Path string
	Name string
	// ModTime is in Unix milliseconds.
	ModTime int64
	IsDir   bool
}

// Vault gives read access to the note store.
//
//go:generate mockgen -source=vault.go -destination=mocks/mock_vault.go -package=mocks
type Vault interface {
	// Read returns the content of the file at path.
	Read(ctx context.Context, path string) ([]byte, error)

	// Lookup returns the entry at path, if any.
	Lookup(path string) (Entry, bool)

	// Children lists the direct children of the directory at dir.
	Children(dir string) ([]Entry, error)

	// Files lists every non-directory entry under the vault root.
	Files(ctx context.Context) ([]Entry, error)
}
