package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docset"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Source      string `arg:"" help:"Directory containing the HTML documentation to convert"`
	Name        string `short:"n" help:"Docset name (default: source directory name)"`
	Destination string `short:"d" default:"." help:"Directory the docset bundle is written to"`
	Force       bool   `short:"f" help:"Overwrite an existing docset bundle"`
	Icon        string `short:"i" help:"PNG file installed as the docset icon"`
	IndexPage   string `short:"I" name:"index-page" help:"Page the docset browser opens by default"`
	AddToDash   bool   `short:"a" help:"Open the finished docset with the viewer"`
	AddToGlobal bool   `short:"A" help:"Install into the global docset directory (implies -a)"`
	Quiet       bool   `short:"q" xor:"verbosity" help:"Limit output to errors"`
	Verbose     bool   `short:"v" xor:"verbosity" help:"Enable verbose output"`
}

// setupBundle resolves the bundle name and destination from the flags
// and enforces the overwrite policy.
func (m *Main) setupBundle(cli *CLI) (*docset.Bundle, error) {
	info, err := os.Stat(cli.Source)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, docset.Errorf(docset.EINVALID, "source %q is not a directory", cli.Source)
	}

	name := cli.Name
	if name == "" {
		name = filepath.Base(filepath.Clean(cli.Source))
	}
	name = strings.TrimSuffix(name, ".docset")

	destination := cli.Destination
	if cli.AddToGlobal {
		destination = m.GlobalDir
	}
	path := filepath.Join(destination, name+".docset")

	if _, err := os.Stat(path); err == nil {
		if !cli.Force {
			return nil, docset.Errorf(docset.ECONFLICT, "destination %q already exists, use --force to overwrite", path)
		}
		if err := os.RemoveAll(path); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	return &docset.Bundle{
		Name:      name,
		Path:      path,
		IndexPage: cli.IndexPage,
	}, nil
}
