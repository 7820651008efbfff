package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docset"
	"github.com/fwojciec/docset/fs"
	"github.com/fwojciec/docset/goquery"
	"github.com/fwojciec/docset/html"
	"github.com/fwojciec/docset/plist"
	docslog "github.com/fwojciec/docset/slog"
	"github.com/fwojciec/docset/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitStatus(err))
	}
}

// Main represents the program.
type Main struct {
	// Pipeline collaborators. Nil fields are wired with production
	// defaults in Run(); tests inject replacements.
	Parsers    docset.ParserRegistry
	Normalizer *docset.Normalizer
	Builder    docset.BundleBuilder
	Annotator  docset.TOCAnnotator

	// Viewer opens the finished bundle in the docset browser.
	Viewer func(ctx context.Context, path string) error

	// GlobalDir is the destination used by --add-to-global.
	GlobalDir string
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Viewer:    openViewer,
		GlobalDir: defaultGlobalDir(),
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docset"),
		kong.Description("Convert HTML documentation into a Dash docset bundle."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no source directory specified. Run 'docset --help' for usage")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: logLevel(cli),
	}))

	// Wire production collaborators unless tests injected replacements.
	if m.Parsers == nil {
		m.Parsers = docslog.NewLoggingRegistry(goquery.NewDefaultRegistry(goquery.WithLogger(logger)), logger)
	}
	if m.Normalizer == nil {
		m.Normalizer = docset.NewNormalizer(docset.DefaultTypeTables())
	}
	if m.Builder == nil {
		m.Builder = &fs.Builder{
			Metadata: plist.NewWriter(),
			Stores:   docslog.NewLoggingOpener(&sqlite.Opener{}, logger),
		}
	}
	if m.Annotator == nil {
		m.Annotator = html.NewAnnotator(logger)
	}

	return m.convert(ctx, cli, logger, stdout)
}

// logLevel maps the verbosity flags to a slog level.
func logLevel(cli *CLI) slog.Level {
	switch {
	case cli.Verbose:
		return slog.LevelDebug
	case cli.Quiet:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ExitStatus maps an error to the process exit status: 22 for an
// unsupported documentation format, 17 for an existing destination,
// 1 for everything else.
func ExitStatus(err error) int {
	switch docset.ErrorCode(err) {
	case docset.EUNSUPPORTED:
		return 22
	case docset.ECONFLICT:
		return 17
	default:
		return 1
	}
}

// defaultGlobalDir returns the directory --add-to-global installs
// bundles into. DOCSET_GLOBAL overrides the standard location.
func defaultGlobalDir() string {
	if path := os.Getenv("DOCSET_GLOBAL"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "DocSets"
	}
	return filepath.Join(home, "Library", "Application Support", "docset", "DocSets")
}

// openViewer hands the finished bundle to the docset browser.
func openViewer(ctx context.Context, path string) error {
	return exec.CommandContext(ctx, "open", "-a", "dash", path).Run()
}
