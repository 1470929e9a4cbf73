// Package document defines the Document value the pipeline enhances.
package document

import "time"

// Document is immutable after construction; the coordinator never
// mutates an input Document, it only produces new Documents/versions.
type Document struct {
	Content   string                 `json:"content" yaml:"content"`
	DocType   string                 `json:"doc_type" yaml:"doc_type"`
	Language  string                 `json:"language" yaml:"language"`
	Version   int                    `json:"version" yaml:"version"`
	CreatedAt time.Time              `json:"created_at" yaml:"created_at"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// New constructs a Document applying the documented defaults
// (doc_type "markdown", language "en").
func New(content string, opts ...Option) *Document {
	d := &Document{
		Content:   content,
		DocType:   "markdown",
		Language:  "en",
		Version:   1,
		CreatedAt: time.Now(),
		Metadata:  make(map[string]interface{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Option is a functional option for configuring a Document at construction.
type Option func(*Document)

func WithDocType(docType string) Option {
	return func(d *Document) { d.DocType = docType }
}

func WithLanguage(language string) Option {
	return func(d *Document) { d.Language = language }
}

func WithMetadata(metadata map[string]interface{}) Option {
	return func(d *Document) { d.Metadata = metadata }
}

// Clone returns a deep-enough copy so strategies and the coordinator
// never observe mutation of the caller's Document.
func (d *Document) Clone() *Document {
	metadata := make(map[string]interface{}, len(d.Metadata))
	for k, v := range d.Metadata {
		metadata[k] = v
	}
	return &Document{
		Content:   d.Content,
		DocType:   d.DocType,
		Language:  d.Language,
		Version:   d.Version,
		CreatedAt: d.CreatedAt,
		Metadata:  metadata,
	}
}

// FromAny normalizes a raw string or *Document input into a Document,
// matching the coordinator's "normalize input" step.
func FromAny(input interface{}) *Document {
	switch v := input.(type) {
	case *Document:
		return v
	case Document:
		return &v
	case string:
		return New(v)
	default:
		return New("")
	}
}
