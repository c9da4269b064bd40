package game

import "testing"

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		wantR uint8
		wantG uint8
		wantB uint8
		ok    bool
	}{
		{"标准颜色", "#8B6C42", 0x8B, 0x6C, 0x42, true},
		{"纯白", "#FFFFFF", 0xFF, 0xFF, 0xFF, true},
		{"小写", "#ff00aa", 0xFF, 0x00, 0xAA, true},
		{"缺少井号", "8B6C42", 0, 0, 0, false},
		{"长度不对", "#FFF", 0, 0, 0, false},
		{"非法字符", "#GGGGGG", 0, 0, 0, false},
		{"空字符串", "", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clr, ok := parseHexColor(tt.input)
			if ok != tt.ok {
				t.Fatalf("parseHexColor(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !ok {
				return
			}
			if clr.R != tt.wantR || clr.G != tt.wantG || clr.B != tt.wantB {
				t.Errorf("parseHexColor(%q) = %v, want (%d, %d, %d)",
					tt.input, clr, tt.wantR, tt.wantG, tt.wantB)
			}
			if clr.A != 0xFF {
				t.Errorf("alpha = %d, want 255", clr.A)
			}
		})
	}
}

func TestKeyColorDeterministic(t *testing.T) {
	// 同一键名任何时候生成同一颜色
	a := keyColor("soil_dry")
	b := keyColor("soil_dry")
	if a != b {
		t.Errorf("keyColor not deterministic: %v != %v", a, b)
	}

	// 不同键名生成可区分的颜色
	c := keyColor("soil_wet")
	if a == c {
		t.Error("different keys should produce different colors")
	}

	if a.A != 0xFF {
		t.Errorf("alpha = %d, want 255", a.A)
	}
}
