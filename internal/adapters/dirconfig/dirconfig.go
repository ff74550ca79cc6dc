// Package dirconfig reads per-directory configuration artifacts.
//
// An artifact is a markdown file with a fixed name placed directly inside a directory.
// Its front-matter and its "key: value" body lines are merged into one record, body lines winning.
package dirconfig

import (
	"bufio"
	"bytes"
	"context"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/tasklens/internal/core/domain"
	"go.trai.ch/tasklens/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Source implements ports.DirectoryConfigSource.
type Source struct {
	vault    ports.Vault
	meta     ports.MetadataService
	fileName string
	group    singleflight.Group
}

var _ ports.DirectoryConfigSource = (*Source)(nil)

// NewSource creates a Source looking for artifacts named fileName.
func NewSource(v ports.Vault, meta ports.MetadataService, fileName string) *Source {
	if fileName == "" {
		fileName = domain.DirectoryConfigFileName
	}
	return &Source{vault: v, meta: meta, fileName: fileName}
}

// FileName returns the artifact name.
func (s *Source) FileName() string {
	return s.fileName
}

// IsConfigPath reports whether p names an artifact.
func (s *Source) IsConfigPath(p string) bool {
	return path.Base(p) == s.fileName
}

// Find returns the artifact that is a direct child of dir.
func (s *Source) Find(dir string) (ports.Entry, bool) {
	e, ok := s.vault.Lookup(domain.JoinVaultPath(dir, s.fileName))
	if !ok || e.IsDir {
		return ports.Entry{}, false
	}
	return e, true
}

// Load reads and parses artifact. Concurrent loads of the same artifact share one read,
// which is not cancelled when the caller that started it goes away.
func (s *Source) Load(ctx context.Context, artifact ports.Entry) (domain.DirectorySnapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.DirectorySnapshot{}, zerr.With(err, "path", artifact.Path)
	}
	v, err, _ := s.group.Do(artifact.Path, func() (any, error) {
		shared := context.WithoutCancel(ctx)
		content, err := s.vault.Read(shared, artifact.Path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrDirectoryConfigRead.Error()), "path", artifact.Path)
		}

		var frontmatter domain.ConfigRecord
		if meta, ok := s.meta.GetCache(shared, artifact.Path); ok && meta != nil {
			frontmatter = meta.Frontmatter
		}

		return domain.DirectorySnapshot{
			Path:    artifact.Path,
			Data:    frontmatter.Merge(ParseContent(content)),
			ModTime: artifact.ModTime,
			Digest:  xxhash.Sum64(content),
		}, nil
	})
	if err != nil {
		return domain.DirectorySnapshot{}, err
	}
	snap, _ := v.(domain.DirectorySnapshot)
	return snap, nil
}

// ParseContent extracts "key: value" lines from content.
//
// Blank lines and lines starting with "#" or "//" are skipped. A line is split at its first colon,
// which must not be the first character; key and value are trimmed and both must be non-empty.
// One leading and one trailing quote character are removed from the value.
func ParseContent(content []byte) domain.ConfigRecord {
	var record domain.ConfigRecord

	sc := bufio.NewScanner(bytes.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		idx := strings.IndexByte(line, ':')
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := stripQuotes(strings.TrimSpace(line[idx+1:]))
		if key == "" || value == "" {
			continue
		}
		record.Set(key, domain.StringValue(value))
	}
	return record
}

func stripQuotes(v string) string {
	if v != "" && (v[0] == '"' || v[0] == '\'') {
		v = v[1:]
	}
	if n := len(v); n > 0 && (v[n-1] == '"' || v[n-1] == '\'') {
		v = v[:n-1]
	}
	return v
}
