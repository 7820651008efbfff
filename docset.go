// Package docset converts generated HTML documentation into docset
// bundles: the original files plus a queryable search index and a
// metadata descriptor, ready for offline API browsers.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, plist/).
package docset
