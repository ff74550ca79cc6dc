// Package frontmatter implements ports.MetadataService by parsing YAML front-matter out of vault files.
package frontmatter

import (
	"bytes"
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"go.trai.ch/tasklens/internal/core/domain"
	"go.trai.ch/tasklens/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var (
	inlineTag = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}_/-]+)`)
	wikiLink  = regexp.MustCompile(`\[\[([^\]|#]+)(?:[#|][^\]]*)?\]\]`)
)

type cached struct {
	modTime int64
	meta    *domain.FileMetadata
}

// Service parses and memoizes file metadata. Entries are reused while the file modification time is unchanged.
type Service struct {
	vault  ports.Vault
	logger ports.Logger

	mu      sync.RWMutex
	entries map[string]cached
}

var _ ports.MetadataService = (*Service)(nil)

// NewService creates a metadata service reading from v.
func NewService(v ports.Vault, logger ports.Logger) *Service {
	return &Service{
		vault:   v,
		logger:  logger,
		entries: make(map[string]cached),
	}
}

// GetCache returns the metadata of p.
func (s *Service) GetCache(ctx context.Context, p string) (*domain.FileMetadata, bool) {
	entry, ok := s.vault.Lookup(p)
	if !ok || entry.IsDir {
		s.forget(p)
		return nil, false
	}

	s.mu.RLock()
	c, hit := s.entries[p]
	s.mu.RUnlock()
	if hit && c.modTime == entry.ModTime {
		return c.meta, true
	}

	content, err := s.vault.Read(ctx, p)
	if err != nil {
		s.logger.Error(err)
		return nil, false
	}
	meta, err := Parse(content)
	if err != nil {
		// A broken header still yields body tags and links.
		s.logger.Warn(err.Error())
	}

	s.mu.Lock()
	s.entries[p] = cached{modTime: entry.ModTime, meta: meta}
	s.mu.Unlock()
	return meta, true
}

func (s *Service) forget(p string) {
	s.mu.Lock()
	delete(s.entries, p)
	s.mu.Unlock()
}

// Parse extracts front-matter, tags and wiki links from note content.
// It always returns usable metadata; the error reports an undecodable front-matter block.
func Parse(content []byte) (*domain.FileMetadata, error) {
	header, body, found := Split(content)
	meta := &domain.FileMetadata{}

	var parseErr error
	if found {
		record, err := decode(header)
		if err != nil {
			parseErr = err
		} else {
			meta.Frontmatter = record
		}
	}

	seen := make(map[string]bool)
	addTag := func(tag string) {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		meta.Tags = append(meta.Tags, "#"+tag)
	}
	if v, ok := meta.Frontmatter.Get("tags"); ok {
		if list, ok := v.List(); ok {
			for _, t := range list {
				addTag(t)
			}
		} else {
			for _, t := range strings.FieldsFunc(v.String(), func(r rune) bool { return r == ',' || r == ' ' }) {
				addTag(t)
			}
		}
	}
	for _, m := range inlineTag.FindAllSubmatch(body, -1) {
		addTag(string(m[1]))
	}
	for _, m := range wikiLink.FindAllSubmatch(body, -1) {
		meta.Links = append(meta.Links, strings.TrimSpace(string(m[1])))
	}
	return meta, parseErr
}

// Split separates a leading "---" delimited block from the rest of content.
func Split(content []byte) (header, body []byte, found bool) {
	content = bytes.TrimPrefix(content, []byte("\ufeff"))
	if !bytes.HasPrefix(content, []byte("---")) {
		return nil, content, false
	}
	rest := content[3:]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return nil, content, false
	}
	rest = rest[nl+1:]
	for offset := 0; offset <= len(rest); {
		end := bytes.IndexByte(rest[offset:], '\n')
		var line []byte
		if end < 0 {
			line = rest[offset:]
		} else {
			line = rest[offset : offset+end]
		}
		if string(bytes.TrimRight(line, " \t\r")) == "---" {
			if end < 0 {
				return rest[:offset], nil, true
			}
			return rest[:offset], rest[offset+end+1:], true
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return nil, content, false
}

func decode(header []byte) (domain.ConfigRecord, error) {
	var record domain.ConfigRecord
	var doc yaml.Node
	if err := yaml.Unmarshal(header, &doc); err != nil {
		return record, zerr.Wrap(err, domain.ErrFrontmatterInvalid.Error())
	}
	if len(doc.Content) == 0 {
		return record, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return record, zerr.With(domain.ErrFrontmatterInvalid, "kind", root.Tag)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		if v, ok := scalarOf(root.Content[i+1]); ok {
			record.Set(key, v)
		}
	}
	return record, nil
}

func scalarOf(n *yaml.Node) (domain.Scalar, bool) {
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return domain.Scalar{}, false
		case "!!bool":
			b, err := strconv.ParseBool(n.Value)
			if err == nil {
				return domain.BoolValue(b), true
			}
		case "!!int":
			i, err := strconv.ParseInt(n.Value, 0, 64)
			if err == nil {
				return domain.IntValue(i), true
			}
		case "!!float":
			f, err := strconv.ParseFloat(n.Value, 64)
			if err == nil {
				return domain.FloatValue(f), true
			}
		}
		return domain.StringValue(n.Value), true
	case yaml.SequenceNode:
		items := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind == yaml.ScalarNode {
				items = append(items, c.Value)
			}
		}
		return domain.ListValue(items), true
	case yaml.AliasNode:
		if n.Alias != nil {
			return scalarOf(n.Alias)
		}
	}
	return domain.Scalar{}, false
}
