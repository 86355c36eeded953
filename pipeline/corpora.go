package pipeline

import (
	"github.com/quay/licenseassess/config"
	"github.com/quay/licenseassess/license/exact"
	"github.com/quay/licenseassess/license/fuzzy"
	"github.com/quay/licenseassess/license/keyword"
)

// LoadCorpora loads every corpus/pattern set a Controller needs from the
// directories named in cfg. SPDX and manual exact-match corpora are
// concatenated; likewise for the two fuzzy header-template directories. The
// keyword corpus is always keyword.DefaultCorpus; cfg names no keyword
// corpus directory.
func LoadCorpora(cfg *config.Config) (*Corpora, error) {
	var c Corpora

	spdxExact, err := exact.LoadCorpusDir(cfg.SPDXLicensesDir)
	if err != nil {
		return nil, err
	}
	manualExact, err := exact.LoadCorpusDir(cfg.ManualLicensesDir)
	if err != nil {
		return nil, err
	}
	c.Exact = append(c.Exact, spdxExact...)
	c.Exact = append(c.Exact, manualExact...)

	spdxFuzzy, err := fuzzy.LoadPatternDir(cfg.SPDXLicenseHeadersDir)
	if err != nil {
		return nil, err
	}
	manualFuzzy, err := fuzzy.LoadPatternDir(cfg.ManualLicenseHeadersDir)
	if err != nil {
		return nil, err
	}
	c.Fuzzy = append(c.Fuzzy, spdxFuzzy...)
	c.Fuzzy = append(c.Fuzzy, manualFuzzy...)

	c.Keyword = keyword.DefaultCorpus()

	return &c, nil
}
