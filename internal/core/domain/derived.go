package domain

// ProjectSource identifies which detection strategy produced a project assignment.
type ProjectSource string

const (
	// SourcePathMapping is a match against a configured path pattern.
	SourcePathMapping ProjectSource = "path"
	// SourceMetadata is a front-matter property, tag or link on the file itself.
	SourceMetadata ProjectSource = "metadata"
	// SourceConfig is the directory configuration artifact.
	SourceConfig ProjectSource = "config"
	// SourceDefault is the fallback naming strategy.
	SourceDefault ProjectSource = "default"
)

// ProjectAssignment names the project a file belongs to and where that came from.
type ProjectAssignment struct {
	Name InternedString `json:"name"`
	// Origin is the matched pattern, property key or config path that produced the assignment.
	Origin   InternedString `json:"origin,omitempty"`
	Source   ProjectSource  `json:"source"`
	ReadOnly bool           `json:"readonly"`
}

// NewProjectAssignment returns an assignment with interned name and origin.
func NewProjectAssignment(name string, source ProjectSource, origin string) *ProjectAssignment {
	p := &ProjectAssignment{
		Name:     NewInternedString(name),
		Source:   source,
		ReadOnly: true,
	}
	if origin != "" {
		p.Origin = NewInternedString(origin)
	}
	return p
}

// FileDerivedData is the cached result of the project computation for one file.
type FileDerivedData struct {
	// Project is nil when no strategy assigned one.
	Project *ProjectAssignment `json:"project,omitempty"`
	// EnhancedMetadata is the directory config merged with the file's front-matter, after metadata mappings.
	EnhancedMetadata ConfigRecord `json:"enhancedMetadata"`
	// Timestamp is the compute time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
	// ConfigSource is the governing config artifact path, empty when the directory has none.
	ConfigSource string `json:"configSource,omitempty"`
	// ConfigTimestamp is the modification time of ConfigSource in Unix milliseconds when it was read.
	ConfigTimestamp int64 `json:"configTimestamp,omitempty"`
}

// DirectorySnapshot is the parsed directory configuration artifact.
type DirectorySnapshot struct {
	// Path is empty when the directory has no config artifact.
	Path string
	Data ConfigRecord
	// ModTime is the artifact modification time in Unix milliseconds.
	ModTime int64
	// Digest fingerprints the raw artifact content.
	Digest uint64
}

// DirectoryCacheEntry holds the config snapshot of one directory and the files computed from it.
type DirectoryCacheEntry struct {
	Directory       string
	ConfigPath      string
	ConfigData      ConfigRecord
	ConfigTimestamp int64
	Digest          uint64
	TrackedPaths    map[string]struct{}
}

// NewDirectoryCacheEntry builds an entry for dir from a snapshot.
func NewDirectoryCacheEntry(dir string, snap DirectorySnapshot) *DirectoryCacheEntry {
	return &DirectoryCacheEntry{
		Directory:       dir,
		ConfigPath:      snap.Path,
		ConfigData:      snap.Data,
		ConfigTimestamp: snap.ModTime,
		Digest:          snap.Digest,
		TrackedPaths:    make(map[string]struct{}),
	}
}

// FileMetadata is the host-provided metadata of a vault file.
type FileMetadata struct {
	Frontmatter ConfigRecord
	Tags        []string
	Links       []string
}
