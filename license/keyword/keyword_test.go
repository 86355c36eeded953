package keyword

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/quay/licenseassess/normalize"
	"github.com/quay/licenseassess/tokenindex"
)

func TestScanSingleTokenMembership(t *testing.T) {
	corpus := BuildCorpus(map[string][]string{
		"license": {"license", "permission"},
	})
	file := tokenindex.Build(normalize.Normalize("This file grants permission to use."))

	got := Scan(file, corpus)
	want := map[string][]string{"license": {"permission"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Scan mismatch (-want +got):\n%s", diff)
	}
}

func TestScanMultiTokenPhraseRequiresWholeRun(t *testing.T) {
	corpus := BuildCorpus(map[string][]string{
		"license_name": {"GNU General Public", "Mozilla Public"},
	})
	file := tokenindex.Build(normalize.Normalize("Licensed under the GNU General Public License."))

	got := Scan(file, corpus)
	want := map[string][]string{"license_name": {"gnu general public"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Scan mismatch (-want +got):\n%s", diff)
	}
}

func TestScanRespectsWholeTokenBoundary(t *testing.T) {
	// "mpl" must not match inside "sample" or similar -- it's a whole token
	// in the normalized stream, never a substring of another token.
	corpus := BuildCorpus(map[string][]string{
		"license_abbreviation": {"MPL"},
	})
	file := tokenindex.Build(normalize.Normalize("this is a sample document with no license info"))

	got := Scan(file, corpus)
	if len(got) != 0 {
		t.Errorf("Scan = %v, want no matches (MPL must not match inside 'sample')", got)
	}
}

func TestScanNoMatchOmitsCategory(t *testing.T) {
	corpus := BuildCorpus(map[string][]string{
		"license": {"license"},
		"general": {"proprietary"},
	})
	file := tokenindex.Build(normalize.Normalize("this text mentions license terms"))

	got := Scan(file, corpus)
	if _, ok := got["general"]; ok {
		t.Errorf("got[general] present, want omitted since it had no hits")
	}
	if _, ok := got["license"]; !ok {
		t.Errorf("got[license] missing, want a hit")
	}
}

func TestBuildCorpusDeduplicatesWithinCategory(t *testing.T) {
	corpus := BuildCorpus(map[string][]string{
		"license": {"License", "LICENSE", "license", "permission"},
	})
	if len(corpus["license"]) != 2 {
		t.Fatalf("got %d terms, want 2 after dedup: %+v", len(corpus["license"]), corpus["license"])
	}
}

func TestLoadCorpusDirParsesOneTermPerLine(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "license.txt"), []byte("license\n# comment\n\npermission\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	corpus, err := LoadCorpusDir(dir)
	if err != nil {
		t.Fatalf("LoadCorpusDir: %v", err)
	}
	if len(corpus["license"]) != 2 {
		t.Fatalf("got %d terms, want 2: %+v", len(corpus["license"]), corpus["license"])
	}
}

func TestLoadCorpusDirEmptyPathReturnsDefault(t *testing.T) {
	corpus, err := LoadCorpusDir("")
	if err != nil {
		t.Fatalf("LoadCorpusDir: %v", err)
	}
	if len(corpus) == 0 {
		t.Error("got empty corpus, want the built-in defaults")
	}
}

func TestDefaultCorpusScanFindsLicenseAbbreviation(t *testing.T) {
	corpus := DefaultCorpus()
	file := tokenindex.Build(normalize.Normalize("Licensed under the GPL version 2."))

	got := Scan(file, corpus)
	found := false
	for _, term := range got["license_abbreviation"] {
		if term == "gpl" {
			found = true
		}
	}
	if !found {
		t.Errorf("got[license_abbreviation] = %v, want it to include 'gpl'", got["license_abbreviation"])
	}
}
