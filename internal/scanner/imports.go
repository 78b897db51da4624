package scanner

import (
	"regexp"
	"strings"
)

// importPatterns match the statically analyzable import forms:
// static import/export-from, CommonJS require, and dynamic import with a
// literal specifier.
var importPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)\bimport\s+(?:type\s+)?(?:[\w*\s{},$]+from\s+)?["']([^"']+)["']`),
	regexp.MustCompile(`(?m)\bexport\s+(?:type\s+)?(?:[\w*\s{},$]+from\s+)\s*["']([^"']+)["']`),
	regexp.MustCompile(`\brequire\(\s*["']([^"']+)["']\s*\)`),
	regexp.MustCompile("\\bimport\\(\\s*[\"']([^\"']+)[\"']\\s*\\)"),
}

// extractImports returns every raw import target found in source text.
func extractImports(src string) []string {
	var targets []string
	for _, re := range importPatterns {
		for _, m := range re.FindAllStringSubmatch(src, -1) {
			targets = append(targets, m[1])
		}
	}
	return targets
}

// normalizeTarget reduces an import target to its package-root form:
// @scope/pkg/sub/path -> @scope/pkg, pkg/sub/path -> pkg. It returns
// false for targets that cannot be classified: relative paths, absolute
// paths, and targets carrying interpolation or quoting noise.
func normalizeTarget(target string) (string, bool) {
	if target == "" || strings.HasPrefix(target, ".") || strings.HasPrefix(target, "/") {
		return "", false
	}
	if strings.ContainsAny(target, "\"'`") || strings.Contains(target, "${") {
		return "", false
	}

	parts := strings.Split(target, "/")
	if strings.HasPrefix(target, "@") {
		if len(parts) < 2 {
			return "", false
		}
		return parts[0] + "/" + parts[1], true
	}
	return parts[0], true
}
