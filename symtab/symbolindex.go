package symtab

import (
	"bufio"
	"fmt"
	"io"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// ArchiveEntry is one named byte stream in the archive a SymbolIndex is
// built from. An archive/zip.File, or an entry of any other enumerable
// container, maps onto it through its name and an Open function;
// opening the underlying archive is left to the caller.
type ArchiveEntry struct {
	Name string
	Open func() (io.ReadCloser, error)
}

var (
	perfMapRE     = regexp.MustCompile(`^perf-\d+\.map$`)
	niMapRE       = regexp.MustCompile(`\.ni\.\{.+\}\.map$`)
	perfinfoMapRE = regexp.MustCompile(`^perfinfo-\d+\.map$`)
)

// SymbolIndex resolves frames whose module or symbol perf script reported
// as "unknown" against a set of side-channel .map files packaged
// alongside a trace. It is built once, up front, and is read-only for the
// rest of its lifetime.
//
// Resolve falls back to its inputs unchanged on any miss; a symbol
// archive is optional input, not a hard dependency.
type SymbolIndex struct {
	moduleMaps   map[string]*IntervalMap
	processGuids map[string]map[string]string
}

// NewSymbolIndex builds a SymbolIndex from entries. Entries whose
// basename matches neither a module-map nor a perfinfo-map pattern are
// ignored.
func NewSymbolIndex(entries []ArchiveEntry) (*SymbolIndex, error) {
	idx := &SymbolIndex{
		moduleMaps:   make(map[string]*IntervalMap),
		processGuids: make(map[string]map[string]string),
	}
	for _, ent := range entries {
		base := path.Base(ent.Name)
		switch {
		case perfMapRE.MatchString(base) || niMapRE.MatchString(base):
			imap, err := readModuleMap(ent)
			if err != nil {
				return nil, fmt.Errorf("symtab: %s: %w", ent.Name, err)
			}
			key := strings.TrimSuffix(base, path.Ext(base))
			idx.moduleMaps[key] = imap
		case perfinfoMapRE.MatchString(base):
			table, err := readPerfinfoMap(ent)
			if err != nil {
				return nil, fmt.Errorf("symtab: %s: %w", ent.Name, err)
			}
			idx.processGuids[base] = table
		}
	}
	return idx, nil
}

func readModuleMap(ent ArchiveEntry) (*IntervalMap, error) {
	r, err := ent.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	imap := &IntervalMap{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, " ", 3)
		if len(fields) != 3 {
			return nil, fmt.Errorf("malformed module map record %q", line)
		}
		start, err := strconv.ParseUint(fields[0], 16, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed start address %q: %w", fields[0], err)
		}
		size, err := strconv.ParseUint(fields[1], 16, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed size %q: %w", fields[1], err)
		}
		imap.Add(start, size, fields[2])
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	imap.Finalize()
	return imap, nil
}

func readPerfinfoMap(ent ArchiveEntry) (map[string]string, error) {
	r, err := ent.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	table := make(map[string]string)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, ";")
		if fields[0] != "ImageLoad" {
			continue
		}
		if len(fields) < 3 {
			continue
		}
		imgPath, guid := fields[1], fields[2]
		table[path.Base(imgPath)] = strings.TrimSpace(guid)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// Resolve looks up module and symbol in the side-channel tables built
// from the process named by pid's perfinfo map. Any table miss along the
// chain is non-fatal: Resolve returns the original module and symbol
// unchanged.
func (idx *SymbolIndex) Resolve(pid int32, module, symbol, address string) (string, string) {
	perfinfo, ok := idx.processGuids[fmt.Sprintf("perfinfo-%d.map", pid)]
	if !ok {
		return module, symbol
	}
	guid, ok := perfinfo[module]
	if !ok {
		return module, symbol
	}
	mapKey := strings.TrimSuffix(module, path.Ext(module)) + "." + guid
	imap, ok := idx.moduleMaps[mapKey]
	if !ok {
		return module, symbol
	}
	addr, err := strconv.ParseUint(strings.TrimPrefix(address, "0x"), 16, 64)
	if err != nil {
		return module, symbol
	}
	sym, _, ok := imap.Lookup(addr)
	if !ok {
		return module, symbol
	}
	return DecodeMicrosoftMapSymbol(sym, "")
}
