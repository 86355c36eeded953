package keyword

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/quay/licenseassess"
)

// LoadCorpusDir loads a category override corpus from dir: one file per
// category, named "<category><ext>", one term per line (blank lines and
// lines starting with "#" are skipped). An empty dir returns the built-in
// DefaultCorpus unchanged.
func LoadCorpusDir(dir string) (Corpus, error) {
	if dir == "" {
		return DefaultCorpus(), nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &assess.Error{Op: "keyword.LoadCorpusDir", Kind: assess.ErrIO, Inner: err}
	}

	categories := make(map[string][]string, len(entries))
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		path := filepath.Join(dir, de.Name())
		f, err := os.Open(path)
		if err != nil {
			return nil, &assess.Error{Op: "keyword.LoadCorpusDir", Kind: assess.ErrIO, Inner: err}
		}
		category := strings.TrimSuffix(de.Name(), filepath.Ext(de.Name()))
		var terms []string
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			terms = append(terms, line)
		}
		scanErr := sc.Err()
		f.Close()
		if scanErr != nil {
			return nil, &assess.Error{Op: "keyword.LoadCorpusDir", Kind: assess.ErrIO, Inner: scanErr}
		}
		categories[category] = terms
	}
	return BuildCorpus(categories), nil
}
