package source

// Kind says which event stream a file holds.
type Kind string

// File kinds.
const (
	KindClaims   Kind = "claims"
	KindPayments Kind = "payments"
)

// Format is the on-disk encoding of a file.
type Format string

// Supported formats.
const (
	FormatJSON  Format = "json"  // one JSON array
	FormatJSONL Format = "jsonl" // one JSON object per line
)

// DiscoveredFile represents an event file found during directory scanning
// or named on the command line.
type DiscoveredFile struct {
	Path   string
	Kind   Kind
	Format Format // empty means sniff from content
}
