package openinghand

import (
	"reflect"
	"testing"
)

func TestParseDeckRef(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantRef DeckRef
		wantOK  bool
		wantErr bool
	}{
		{name: "empty", raw: "", wantOK: false},
		{name: "whitespace", raw: "   ", wantOK: false},
		{name: "folder id", raw: "42", wantRef: DeckRef{Kind: RefFolder, ID: 42}, wantOK: true},
		{name: "folder id padded", raw: " 7 ", wantRef: DeckRef{Kind: RefFolder, ID: 7}, wantOK: true},
		{name: "build session", raw: "build:13", wantRef: DeckRef{Kind: RefBuild, ID: 13}, wantOK: true},
		{name: "build with spaces", raw: "build: 9", wantRef: DeckRef{Kind: RefBuild, ID: 9}, wantOK: true},
		{name: "negative id", raw: "-3", wantErr: true},
		{name: "zero id", raw: "0", wantErr: true},
		{name: "not a number", raw: "abc", wantErr: true},
		{name: "build garbage", raw: "build:x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, ok, err := ParseDeckRef(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDeckRef(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if ok != tt.wantOK {
				t.Fatalf("ParseDeckRef(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && ref != tt.wantRef {
				t.Fatalf("ParseDeckRef(%q) = %+v, want %+v", tt.raw, ref, tt.wantRef)
			}
		})
	}
}

func TestParsePastedDecklist(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []ParsedLine
	}{
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
		{
			name: "quantity first",
			raw:  "2 Sol Ring",
			want: []ParsedLine{{Name: "Sol Ring", Quantity: 2}},
		},
		{
			name: "quantity first with x",
			raw:  "1x Arcane Signet",
			want: []ParsedLine{{Name: "Arcane Signet", Quantity: 1}},
		},
		{
			name: "quantity last",
			raw:  "Lightning Bolt x4",
			want: []ParsedLine{{Name: "Lightning Bolt", Quantity: 4}},
		},
		{
			name: "bare name defaults to one",
			raw:  "Counterspell",
			want: []ParsedLine{{Name: "Counterspell", Quantity: 1}},
		},
		{
			name: "comments and blanks skipped",
			raw:  "# sideboard\n\n3 Brainstorm\n   \n# end",
			want: []ParsedLine{{Name: "Brainstorm", Quantity: 3}},
		},
		{
			name: "mixed patterns",
			raw:  "2 Sol Ring\n1x Arcane Signet\nBad Line With No Qty",
			want: []ParsedLine{
				{Name: "Sol Ring", Quantity: 2},
				{Name: "Arcane Signet", Quantity: 1},
				{Name: "Bad Line With No Qty", Quantity: 1},
			},
		},
		{
			name: "zero quantity clamps to one",
			raw:  "0 Swamp",
			want: []ParsedLine{{Name: "Swamp", Quantity: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePastedDecklist(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParsePastedDecklist(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSplitCommanderNames(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{raw: "", want: nil},
		{raw: "Tymna the Weaver", want: []string{"Tymna the Weaver"}},
		{raw: "Tymna the Weaver // Thrasios, Triton Hero", want: []string{"Tymna the Weaver", "Thrasios, Triton Hero"}},
	}

	for _, tt := range tests {
		if got := SplitCommanderNames(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitCommanderNames(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestSplitCommanderOracleIDs(t *testing.T) {
	got := SplitCommanderOracleIDs(" aaa , bbb ,, ")
	want := []string{"aaa", "bbb"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitCommanderOracleIDs = %v, want %v", got, want)
	}
}

func TestSplitCommanderNameFragments(t *testing.T) {
	got := splitCommanderNameFragments("Tymna / Thrasios, Kraum & Vial")
	for _, frag := range []string{"tymna", "thrasios", "kraum", "vial"} {
		if _, ok := got[frag]; !ok {
			t.Errorf("fragment %q missing from %v", frag, got)
		}
	}
	if len(got) != 4 {
		t.Fatalf("got %d fragments, want 4: %v", len(got), got)
	}
}
