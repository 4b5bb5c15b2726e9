// Package model defines core data structures for pyventory.
package model

// RecordKind indicates what an ImportRecord describes.
type RecordKind string

const (
	Import RecordKind = "import"
	Usage  RecordKind = "usage"
	Error  RecordKind = "error"
)

// Sentinel versions used when no concrete version can be determined.
const (
	VersionLatest  = "latest"
	VersionUnknown = "unknown"
)

// ErrorLine is the sentinel line number carried by Error records.
const ErrorLine = -1

// DependencyRecord is one declared or inferred dependency, normalized from
// whatever manifest format it came from. Duplicate triples across manifests
// are preserved: the extractor output is an append-only log, not a set.
type DependencyRecord struct {
	SourcePath string
	Package    string
	Version    string
}

// ImportRecord is one entry in the import scanner's ordered output stream.
// For Kind == Error, Symbol carries the diagnostic message and Line is
// ErrorLine.
type ImportRecord struct {
	File   string
	Kind   RecordKind
	Symbol string
	Alias  string
	Line   int
	Code   string
}

// RepoInfo describes a remote repository as reported by the hosting API.
type RepoInfo struct {
	Name      string `json:"name"`
	Owner     string `json:"owner,omitempty"`
	Language  string `json:"language"`
	Stars     int    `json:"stars"`
	Forks     int    `json:"forks"`
	Watchers  int    `json:"watchers"`
	UpdatedAt string `json:"updated_at"`
	Private   bool   `json:"private"`
	CloneURL  string `json:"clone_url"`
	SSHURL    string `json:"ssh_url"`
}
