// Command perfscript parses the textual output of "perf script" and
// prints either the decoded samples or a hotspot summary.
package main

import (
	"archive/zip"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/aclements/perfscript"
	"github.com/aclements/perfscript/parser"
	"github.com/aclements/perfscript/statutil"
	"github.com/aclements/perfscript/symtab"
	"github.com/klauspost/compress/gzip"
	"github.com/peterbourgon/ff/v3"
)

type arguments struct {
	input      string
	symbols    string
	filter     string
	maxSamples int
	hotspots   bool

	fs *flag.FlagSet
}

func parseArgs() (*arguments, error) {
	var args arguments

	fs := flag.NewFlagSet("perfscript", flag.ExitOnError)
	fs.StringVar(&args.input, "i", "-", "input perf-script `file` (.gz accepted); \"-\" for stdin")
	fs.StringVar(&args.symbols, "symbols", "", "optional symbol archive `zip file`")
	fs.StringVar(&args.filter, "filter", "", "event-name filter `regexp`")
	fs.IntVar(&args.maxSamples, "max-samples", 0, "cap on emitted events; 0 uses the parser default")
	fs.BoolVar(&args.hotspots, "hotspots", false, "print a hotspot summary instead of raw samples")
	fs.Usage = func() { fs.PrintDefaults() }
	args.fs = fs

	err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("PERFSCRIPT"))
	return &args, err
}

func main() {
	args, err := parseArgs()
	if err != nil {
		log.Fatal(err)
	}

	r, err := openInput(args.input)
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	var opts []parser.Option
	if args.filter != "" {
		re, err := regexp.Compile(args.filter)
		if err != nil {
			log.Fatalf("bad -filter: %v", err)
		}
		opts = append(opts, parser.WithFilter(re))
	}
	if args.maxSamples > 0 {
		opts = append(opts, parser.WithMaxSamples(args.maxSamples))
	}
	if args.symbols != "" {
		idx, err := openSymbolArchive(args.symbols)
		if err != nil {
			log.Fatal(err)
		}
		opts = append(opts, parser.WithSymbolIndex(idx))
	}

	p := parser.NewEventStreamParser(r, opts...)

	var events []perfscript.Event
	for p.Next() {
		events = append(events, p.Event())
		if !args.hotspots {
			printEvent(p.Event())
		}
	}
	if err := p.Err(); err != nil {
		log.Fatal(err)
	}

	if args.hotspots {
		printHotspots(events)
	}
}

// openInput opens name ("-" for stdin), transparently decompressing a
// .gz-suffixed file the way a symbol-heavy trace is usually shipped.
func openInput(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(name, ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &gzipReadCloser{gz, f}, nil
}

type gzipReadCloser struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipReadCloser) Close() error {
	err := g.Reader.Close()
	if ferr := g.f.Close(); err == nil {
		err = ferr
	}
	return err
}

// openSymbolArchive builds a SymbolIndex from the named zip archive.
func openSymbolArchive(name string) (*symtab.SymbolIndex, error) {
	zr, err := zip.OpenReader(name)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	entries := make([]symtab.ArchiveEntry, len(zr.File))
	for i, f := range zr.File {
		f := f
		entries[i] = symtab.ArchiveEntry{
			Name: f.Name,
			Open: func() (io.ReadCloser, error) { return f.Open() },
		}
	}
	return symtab.NewSymbolIndex(entries)
}

func printEvent(ev perfscript.Event) {
	h := ev.Header()
	fmt.Printf("%s %d/%d [%03d] %.6f: %s:\n", h.Command, h.PID, h.TID, h.CPU, h.TimeMsec/1000, h.EventName)
	for _, frame := range h.Frames {
		fmt.Printf("\t%s\n", frame.DisplayName())
	}
}

func printHotspots(events []perfscript.Event) {
	hs := statutil.FindHotspots(events, 20)
	for i, h := range hs {
		fmt.Println(statutil.FormatHotspot(h, i+1))
	}
}
