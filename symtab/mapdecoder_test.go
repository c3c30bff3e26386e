package symtab

import "testing"

func TestDecodeMicrosoftMapSymbol(t *testing.T) {
	tests := []struct {
		raw, fallback    string
		wantMod, wantSym string
	}{
		{"[corlib.ni.dll] Foo::Bar", "fallback.map", "corlib.ni.dll", "Foo::Bar"},
		{"some text [mscorlib] Baz::Qux(int)", "fallback.map", "mscorlib", "Baz::Qux(int)"},
		{"[onlymodule]", "fallback.map", "onlymodule", ""},
		{"no brackets here at all", "fallback.map", "no brackets here at all", "fallback.map"},
		{"", "fallback.map", "", "fallback.map"},
	}
	for _, tc := range tests {
		mod, sym := DecodeMicrosoftMapSymbol(tc.raw, tc.fallback)
		if mod != tc.wantMod || sym != tc.wantSym {
			t.Errorf("DecodeMicrosoftMapSymbol(%q, %q) = (%q, %q), want (%q, %q)",
				tc.raw, tc.fallback, mod, sym, tc.wantMod, tc.wantSym)
		}
	}
}
