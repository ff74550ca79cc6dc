// Package project assigns projects to vault files and normalizes their metadata.
package project

import (
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"go.trai.ch/tasklens/internal/core/domain"
	"go.trai.ch/tasklens/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	dateFieldHints     = []string{"due", "start", "scheduled", "completed", "finished", "created", "deadline"}
	priorityFieldHints = []string{"priority", "urgency", "importance"}
	isoDate            = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	slashRuns          = regexp.MustCompile(`/+`)
)

var priorityWords = map[string]int64{
	"highest": 5, "urgent": 5, "critical": 5,
	"high": 4, "important": 4,
	"medium": 3, "normal": 3, "moderate": 3,
	"low": 2, "minor": 2,
	"lowest": 1, "trivial": 1,
}

type pathMatcher struct {
	pattern string
	project string
	glob    glob.Glob
}

func (m pathMatcher) match(p string) bool {
	if m.glob != nil {
		return m.glob.Match(strings.ToLower(p))
	}
	return strings.Contains(p, m.pattern)
}

// Resolver implements ports.ProjectResolver.
//
// Strategies are tried in a fixed order and the first match wins: path mappings, detection methods,
// the front-matter project key, the directory config, then default naming.
type Resolver struct {
	settings domain.ProjectSettings
	paths    []pathMatcher
}

var _ ports.ProjectResolver = (*Resolver)(nil)

// NewResolver compiles the enabled path mappings of settings.
func NewResolver(settings domain.ProjectSettings) (*Resolver, error) {
	r := &Resolver{settings: settings}
	for _, m := range settings.PathMappings {
		if !m.Enabled {
			continue
		}
		pattern := strings.ReplaceAll(m.Pattern, `\`, "/")
		pm := pathMatcher{pattern: pattern, project: m.Project}
		if strings.ContainsAny(pattern, "*?") {
			g, err := glob.Compile(strings.ToLower(pattern))
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidPathMapping.Error()), "pattern", m.Pattern)
			}
			pm.glob = g
		}
		r.paths = append(r.paths, pm)
	}
	return r, nil
}

// Resolve returns the project of p, or nil when no strategy matched.
func (r *Resolver) Resolve(p string, meta *domain.FileMetadata, dirConfig domain.ConfigRecord) *domain.ProjectAssignment {
	p = strings.ReplaceAll(p, `\`, "/")
	var frontmatter domain.ConfigRecord
	if meta != nil {
		frontmatter = meta.Frontmatter
	}

	for _, m := range r.paths {
		if m.match(p) {
			return assignment(m.project, domain.SourcePathMapping, m.pattern)
		}
	}

	if a := r.detect(p, meta, frontmatter); a != nil {
		return a
	}

	if r.settings.MetadataDetection && r.settings.MetadataKey != "" {
		if name, ok := frontmatter.Text(r.settings.MetadataKey); ok && strings.TrimSpace(name) != "" {
			return assignment(name, domain.SourceMetadata, r.settings.MetadataKey)
		}
	}

	if r.settings.ConfigFileDetection {
		if name, ok := dirConfig.Text("project"); ok && strings.TrimSpace(name) != "" {
			return assignment(name, domain.SourceConfig, "project-config")
		}
	}

	if r.settings.DefaultNaming.Enabled {
		if name := r.defaultName(p, frontmatter); name != "" {
			return assignment(name, domain.SourceDefault, r.settings.DefaultNaming.Strategy)
		}
	}
	return nil
}

func (r *Resolver) detect(p string, meta *domain.FileMetadata, frontmatter domain.ConfigRecord) *domain.ProjectAssignment {
	for _, method := range r.settings.DetectionMethods {
		if !method.Enabled {
			continue
		}
		switch method.Type {
		case "metadata":
			if v, ok := frontmatter.Get(method.PropertyKey); ok && v.String() != "" {
				return assignment(v.String(), domain.SourceMetadata, method.PropertyKey)
			}
		case "tag":
			target := strings.ToLower("#" + strings.TrimPrefix(method.PropertyKey, "#"))
			if meta == nil {
				continue
			}
			for _, tag := range meta.Tags {
				if strings.ToLower(tag) == target {
					return namedByFile(p, frontmatter, "tag:"+target)
				}
			}
		case "link":
			if meta == nil {
				continue
			}
			for _, link := range meta.Links {
				if method.LinkFilter != "" {
					if strings.Contains(link, method.LinkFilter) {
						return namedByFile(p, frontmatter, "link:"+link)
					}
					continue
				}
				if v, ok := frontmatter.Get(method.PropertyKey); ok && strings.Contains(v.String(), "[["+link+"]]") {
					return namedByFile(p, frontmatter, "link:"+link)
				}
			}
		}
	}
	return nil
}

// namedByFile names a project detected by tag or link after the file's title, its name, or its file name.
func namedByFile(p string, frontmatter domain.ConfigRecord, origin string) *domain.ProjectAssignment {
	for _, key := range []string{"title", "name"} {
		if v, ok := frontmatter.Get(key); ok && v.String() != "" {
			return assignment(v.String(), domain.SourceMetadata, key+" via "+origin)
		}
	}
	name := path.Base(p)
	if strings.HasSuffix(strings.ToLower(name), ".md") {
		name = name[:len(name)-3]
	}
	return assignment(name, domain.SourceMetadata, origin)
}

func (r *Resolver) defaultName(p string, frontmatter domain.ConfigRecord) string {
	naming := r.settings.DefaultNaming
	switch naming.Strategy {
	case "filename":
		name := path.Base(p)
		if naming.StripExtension {
			name = strings.TrimSuffix(name, path.Ext(name))
		}
		return name
	case "foldername":
		parts := strings.Split(p, "/")
		if len(parts) > 1 {
			return parts[len(parts)-2]
		}
		return ""
	case "metadata":
		if naming.MetadataKey == "" {
			return ""
		}
		if v, ok := frontmatter.Get(naming.MetadataKey); ok {
			return strings.TrimSpace(v.String())
		}
	}
	return ""
}

// ApplyMappings copies each enabled mapping's source value to its target key.
// Date-like targets turn YYYY-MM-DD strings into Unix milliseconds (UTC), priority-like
// targets turn numbers and priority words into integers. Other values are copied unchanged.
func (r *Resolver) ApplyMappings(record domain.ConfigRecord) domain.ConfigRecord {
	out := record.Clone()
	for _, m := range r.settings.MetadataMappings {
		if !m.Enabled {
			continue
		}
		v, ok := record.Get(m.SourceKey)
		if !ok {
			continue
		}
		out.Set(m.TargetKey, convert(m.TargetKey, v))
	}
	return out
}

func convert(targetKey string, v domain.Scalar) domain.Scalar {
	s, ok := v.Text()
	if !ok {
		return v
	}
	key := strings.ToLower(targetKey)
	switch {
	case containsAny(key, dateFieldHints):
		if isoDate.MatchString(s) {
			if t, err := time.Parse(time.DateOnly, s[:10]); err == nil {
				return domain.IntValue(t.UnixMilli())
			}
		}
	case containsAny(key, priorityFieldHints):
		if n, err := strconv.ParseInt(leadingDigits(s), 10, 64); err == nil {
			return domain.IntValue(n)
		}
		if n, ok := priorityWords[strings.ToLower(strings.TrimSpace(s))]; ok {
			return domain.IntValue(n)
		}
	}
	return v
}

func containsAny(s string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(s, h) {
			return true
		}
	}
	return false
}

// leadingDigits returns the optional sign and digits at the start of s.
func leadingDigits(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[end] == '-' || s[end] == '+')) {
		end++
	}
	return s[:end]
}

func assignment(name string, source domain.ProjectSource, origin string) *domain.ProjectAssignment {
	return domain.NewProjectAssignment(NormalizeName(name), source, origin)
}

// NormalizeName converts backslashes, collapses repeated slashes and trims edge slashes and spaces.
func NormalizeName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), `\`, "/")
	name = slashRuns.ReplaceAllString(name, "/")
	return strings.Trim(name, "/")
}
