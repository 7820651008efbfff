package docset

import (
	"net/url"
	"strings"
)

// EntryType classifies a search index entry. The set is open: type
// tables may map onto values beyond the canonical constants below.
type EntryType string

// Canonical entry types recognized by documentation browsers.
const (
	TypeAttribute   EntryType = "Attribute"
	TypeClass       EntryType = "Class"
	TypeConstant    EntryType = "Constant"
	TypeConstructor EntryType = "Constructor"
	TypeEnvironment EntryType = "Environment"
	TypeException   EntryType = "Exception"
	TypeFunction    EntryType = "Function"
	TypeGuide       EntryType = "Guide"
	TypeInterface   EntryType = "Interface"
	TypeMethod      EntryType = "Method"
	TypeModule      EntryType = "Module"
	TypeOperator    EntryType = "Operator"
	TypePackage     EntryType = "Package"
	TypeProperty    EntryType = "Property"
	TypeSection     EntryType = "Section"
	TypeType        EntryType = "Type"
	TypeValue       EntryType = "Value"
	TypeVariable    EntryType = "Variable"
)

// RawEntry is an entry as extracted by a parser, before normalization.
// Type holds the variant-specific label (e.g. "classmethod").
type RawEntry struct {
	Name string
	Type string
	Path string
}

// Entry represents one search index record. Path is relative to the
// bundle's Documents directory and may carry a #fragment addressing an
// anchor within the file. Fragments are taken verbatim from the source
// markup so lookups land on the original anchors.
type Entry struct {
	Name string
	Type EntryType
	Path string
}

// Validate returns an error if the entry contains invalid fields.
func (e *Entry) Validate() error {
	if e.Name == "" {
		return Errorf(EINVALID, "entry name required")
	}
	if e.Type == "" {
		return Errorf(EINVALID, "entry type required")
	}
	if e.Path == "" {
		return Errorf(EINVALID, "entry path required")
	}
	return nil
}

// File returns the file portion of Path, without any fragment.
func (e *Entry) File() string {
	file, _, _ := strings.Cut(e.Path, "#")
	return file
}

// Fragment returns the anchor portion of Path, or "" if there is none.
func (e *Entry) Fragment() string {
	_, frag, _ := strings.Cut(e.Path, "#")
	return frag
}

// AppleRef returns the typed table-of-contents marker value for the
// entry, with the name percent-escaped. Annotators use the same value
// both to inject markers and to recognize markers already present.
func (e *Entry) AppleRef() string {
	return "//apple_ref/cpp/" + string(e.Type) + "/" + url.PathEscape(e.Name)
}
