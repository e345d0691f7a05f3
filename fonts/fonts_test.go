package fonts

import "testing"

func TestLoadBuiltinFonts(t *testing.T) {
	for _, name := range []string{SansRegular, "embed:" + SansBold, " SANS-BOLD "} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("load %q: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("font %q is empty", name)
		}
	}
}

func TestLoadUnknownFont(t *testing.T) {
	if _, err := Load("Inter-Regular.ttf"); err == nil {
		t.Fatalf("expected error for unknown font")
	}
}
