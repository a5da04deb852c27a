package loader

import (
	"fmt"
	"path/filepath"
)

// resolve turns a raw reference/import path into an absolute file path
// rooted at dir (the referencing file's directory), retrying with
// referencingExt appended when the literal path doesn't exist (spec.md
// §6: "extension elision attempts the source-file extension before
// failing").
func resolve(dir, raw, referencingExt string, exists func(string) bool) (string, error) {
	candidate := raw
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(dir, candidate)
	}
	if exists(candidate) {
		return candidate, nil
	}
	if filepath.Ext(candidate) == "" && referencingExt != "" {
		withExt := candidate + referencingExt
		if exists(withExt) {
			return withExt, nil
		}
	}
	return "", fmt.Errorf("%s not found", raw)
}
