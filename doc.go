// Package perfscript parses the textual output of `perf script` into a
// lazy sequence of samples, optionally resolving frames whose module or
// symbol is reported as "unknown" against side-channel address-interval
// symbol tables.
//
// Parsing starts with parser.NewEventStreamParser, which wraps an
// io.Reader and produces Events one at a time via the Next/Event/Err
// pull-iterator pattern. Symbol resolution is driven by a *symtab.
// SymbolIndex built once from a set of named byte streams (module maps
// and perfinfo maps) and installed on the parser with SetSymbolIndex.
package perfscript // import "github.com/aclements/perfscript"
