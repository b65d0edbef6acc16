package aim

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

// isJPEG reports whether path carries a JPEG extension.
func isJPEG(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".jpg" || ext == ".jpeg"
}

// FindImages resolves a user-supplied path into an ordered list of JPEG
// files. A plain file must itself be a JPEG; a directory is listed
// non-recursively and filtered by extension, with skipped entries logged.
func FindImages(path string) ([]string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", path, err)
	}

	if !st.IsDir() {
		if !isJPEG(path) {
			return nil, fmt.Errorf("%q is not a JPEG image", path)
		}
		return []string{path}, nil
	}

	names, err := godirwalk.ReadDirnames(path, nil)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", path, err)
	}
	sort.Strings(names)

	found := []string{}
	for _, n := range names {
		full := filepath.Join(path, n)
		if !isJPEG(n) {
			klog.Infof("skipping %s: not a JPEG", full)
			continue
		}

		fi, err := os.Stat(full)
		if err != nil {
			klog.Warningf("stat failure for %s: %v", full, err)
			continue
		}
		if fi.IsDir() {
			continue
		}

		found = append(found, full)
	}

	return found, nil
}
