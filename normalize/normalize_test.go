package normalize

import "testing"

type testcase struct {
	Name string
	In   string
	Want string
}

func (tc testcase) Run(t *testing.T) {
	got := Normalize(tc.In)
	if got != tc.Want {
		t.Errorf("Normalize(%q) = %q, want %q", tc.In, got, tc.Want)
	}
}

func TestNormalize(t *testing.T) {
	tt := []testcase{
		{
			Name: "ControlBytes",
			In:   "hello\x00\x01world\tkept\nline\rend",
			Want: "hello world kept line end",
		},
		{
			Name: "HexEscape",
			In:   `binary\x00\x01garbage here`,
			Want: "binary garbage here",
		},
		{
			Name: "TroffEscape",
			In:   `version 2\&.0\&.`,
			Want: "version 2.0",
		},
		{
			Name: "KeepsVersionDots",
			In:   "Version 1.0.0 of the License.",
			Want: "version 1.0.0 of the license",
		},
		{
			Name: "DropsOtherPunctuation",
			In:   `Copyright (c) 2024, "ACME Corp." All rights reserved!`,
			Want: "copyright c 2024 acme corp all rights reserved",
		},
		{
			Name: "Diacritics",
			In:   "café déjà vu",
			Want: "cafe deja vu",
		},
		{
			Name: "CollapsesWhitespace",
			In:   "a   b\t\tc\n\n\nd",
			Want: "a b c d",
		},
		{
			Name: "Casefold",
			In:   "MIT LICENSE",
			Want: "mit license",
		},
	}
	for _, tc := range tt {
		t.Run(tc.Name, tc.Run)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"The MIT License (MIT)\r\nCopyright (c) 2024",
		`GPL\&.version 2\&.0`,
		"café\x00\x01 déjà\tvu",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}
