package symtab

import "strings"

// DecodeMicrosoftMapSymbol decodes a symbol string of the embedded
// "[module-path] symbol-text" form that some .map-sourced symbols use.
//
// It scans word by word; the first space-separated token that begins
// with '[' and ends with ']' is taken as the module path (brackets
// stripped), and everything after it, trimmed, is the symbol text. If no
// such token is found, the whole input is returned as the module and
// fallbackModule is returned as the symbol.
func DecodeMicrosoftMapSymbol(raw, fallbackModule string) (module, symbol string) {
	rest := raw
	for rest != "" {
		rest = strings.TrimLeft(rest, " ")
		if rest == "" {
			break
		}
		end := strings.IndexByte(rest, ' ')
		var tok, remainder string
		if end < 0 {
			tok, remainder = rest, ""
		} else {
			tok, remainder = rest[:end], rest[end+1:]
		}
		if strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]") {
			return tok[1 : len(tok)-1], strings.TrimSpace(remainder)
		}
		rest = remainder
	}
	return raw, fallbackModule
}
