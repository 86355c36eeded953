package extract

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/quay/licenseassess"
)

// resolveUnder joins root and member, rejecting any result that escapes
// root: this is the path-traversal protection both the zip and tar
// extraction paths share.
//
// A failure here is fatal to the archive being extracted, not to an
// individual member, per spec: the caller should abandon the whole archive.
func resolveUnder(root, member string) (string, error) {
	member = filepath.ToSlash(member)
	cleaned := filepath.Join(root, filepath.FromSlash(member))
	rel, err := filepath.Rel(root, cleaned)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &assess.Error{
			Op:      "extract.resolveUnder",
			Kind:    assess.ErrSecurity,
			Message: "archive member escapes extraction root: " + member,
		}
	}
	return cleaned, nil
}

// windowsInvalid is the set of characters invalid in a Windows path
// component. Checked on every platform so that archives extracted on Linux
// still produce a tree that would be portable to Windows, matching the
// teacher's cross-platform layer handling.
const windowsInvalid = `<>:"|?*`

// hasInvalidPathChars reports whether any path component of name contains a
// character Windows path components cannot hold. On non-Windows platforms
// this is still enforced, per spec ("skip member names containing
// platform-invalid characters").
func hasInvalidPathChars(name string) bool {
	for _, r := range name {
		if strings.ContainsRune(windowsInvalid, r) {
			return true
		}
	}
	return false
}

// isWindows reports whether chmod should be skipped as meaningless; kept as
// a function (rather than a build-tagged const) since the extractor itself
// has no other platform-conditional code.
func isWindows() bool { return runtime.GOOS == "windows" }
