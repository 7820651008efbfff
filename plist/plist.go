// Package plist writes docset bundle metadata as an Apple XML property
// list.
package plist

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/fwojciec/docset"
)

// Ensure Writer implements docset.MetadataWriter.
var _ docset.MetadataWriter = (*Writer)(nil)

// doctype is the declaration Apple's tooling emits for version 1.0
// property lists. Docset browsers expect it verbatim.
const doctype = `DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd"`

// Writer writes a bundle's Info.plist.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteMetadata writes the Info.plist for bundle. The identifier,
// bundle name, and platform family all carry the bundle name;
// dashIndexFilePath is present only when an index page was configured.
func (w *Writer) WriteMetadata(bundle *docset.Bundle) error {
	if bundle.Name == "" {
		return docset.Errorf(docset.EINVALID, "bundle name required")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateDirective(doctype)

	root := doc.CreateElement("plist")
	root.CreateAttr("version", "1.0")
	dict := root.CreateElement("dict")

	addString(dict, "CFBundleIdentifier", bundle.Name)
	addString(dict, "CFBundleName", bundle.Name)
	addString(dict, "DocSetPlatformFamily", bundle.Name)
	addString(dict, "DashDocSetFamily", "python")
	dict.CreateElement("key").SetText("isDashDocset")
	dict.CreateElement("true")
	if bundle.IndexPage != "" {
		addString(dict, "dashIndexFilePath", bundle.IndexPage)
	}

	doc.IndentTabs()
	if err := doc.WriteToFile(bundle.InfoPlistPath()); err != nil {
		return fmt.Errorf("writing Info.plist: %w", err)
	}
	return nil
}

// addString appends a <key>/<string> pair to dict.
func addString(dict *etree.Element, key, value string) {
	dict.CreateElement("key").SetText(key)
	dict.CreateElement("string").SetText(value)
}
