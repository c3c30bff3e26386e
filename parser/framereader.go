// Package parser implements the perf-script line grammar on top of a
// cursor.ByteCursor: one stack-frame line, one scheduler-switch payload,
// and the top-level event stream that ties them together.
package parser

import (
	"strings"

	"github.com/aclements/perfscript"
	"github.com/aclements/perfscript/cursor"
	"github.com/aclements/perfscript/symtab"
	"github.com/ianlancetaylor/demangle"
)

// FrameReader reads single stack-frame lines of the form
// "<hexaddr> <symbol-text> (<module-text>)", applying the
// Microsoft-map decoding, symbol-index resolution, and C++ demangling
// steps before returning a perfscript.StackFrame.
//
// The zero value reads frames with no symbol resolution.
type FrameReader struct {
	Index *symtab.SymbolIndex
	PID   int32
}

// ReadFrame reads one stack-frame line starting at c's current position,
// leaving c positioned at the line's trailing newline.
func (fr *FrameReader) ReadFrame(c *cursor.ByteCursor) (perfscript.Frame, error) {
	c.SkipWhitespace()
	address := c.ReadASCIIUntil(' ')

	c.SkipWhitespace()
	line := c.ReadASCIIUntil('\n')

	lastOpen := strings.LastIndexByte(line, '(')
	var symbolText, moduleText string
	if lastOpen < 0 {
		symbolText = line
	} else {
		symbolText = line[:lastOpen]
		moduleText = line[lastOpen:]
	}
	symbolText = strings.TrimSpace(symbolText)
	moduleText = strings.TrimSpace(moduleText)

	symbolText = trimOuterPair(symbolText, '(', ')')
	symbolText = trimOuterPair(symbolText, '[', ']')
	moduleText = trimOuterPair(moduleText, '(', ')')
	moduleText = trimOuterPair(moduleText, '[', ']')

	if strings.HasSuffix(moduleText, ".map") {
		_, decSymbol := symtab.DecodeMicrosoftMapSymbol(symbolText, moduleText)
		if decSymbol != "" {
			symbolText = decSymbol
		} else {
			symbolText = moduleText
		}
	}

	moduleText = basename(moduleText)

	if (moduleText == "unknown" || symbolText == "unknown") && fr.Index != nil {
		moduleText, symbolText = fr.Index.Resolve(fr.PID, moduleText, symbolText, address)
	}

	symbolText = demangleSymbol(symbolText)

	return perfscript.StackFrame{
		Address: address,
		Module:  moduleText,
		Symbol:  symbolText,
	}, nil
}

// trimOuterPair strips one matched outer pair of open/close from s, if
// present.
func trimOuterPair(s string, open, close byte) string {
	if len(s) >= 2 && s[0] == open && s[len(s)-1] == close {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// basename normalizes a module path to its final component, treating
// both / and \ as separators; a plain path.Base isn't enough because a
// Linux module name legally contains characters (like \) that aren't
// path separators on that platform but do occur as separators in
// Windows-sourced .map module text.
func basename(module string) string {
	if i := strings.LastIndexAny(module, `/\`); i >= 0 {
		return module[i+1:]
	}
	return module
}

// demangleSymbol runs s through the Itanium C++ demangler when it looks
// mangled, falling back to s unchanged on anything the demangler
// rejects.
func demangleSymbol(s string) string {
	if !strings.HasPrefix(s, "_Z") {
		return s
	}
	out, err := demangle.ToString(s, demangle.NoClones)
	if err != nil {
		return s
	}
	return out
}
