package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// maxPackageNameLength bounds any package name accepted from lists or registries.
const maxPackageNameLength = 214

// ValidatePackageName validates a package name for safety and correctness.
// It rejects names that could be used for path traversal or injection when
// they end up in cache keys, URLs or map keys:
//   - No empty names
//   - No control characters or null bytes
//   - No path traversal sequences (.., //) or backslashes
//   - Maximum length of 214 characters (the npm limit)
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}
	if len(name) > maxPackageNameLength {
		return New(ErrCodeInvalidPackage, "package name too long (max %d characters)", maxPackageNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "//", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// npmPackageNameRegex matches valid npm package names.
var npmPackageNameRegex = regexp.MustCompile(`^(@[a-z0-9-~][a-z0-9-._~]*/)?[a-z0-9-~][a-z0-9-._~]*$`)

// ValidateNpmPackageName validates an npm package name.
func ValidateNpmPackageName(name string) error {
	if err := ValidatePackageName(name); err != nil {
		return err
	}
	if strings.ToLower(name) != name {
		return New(ErrCodeInvalidPackage, "npm package names must be lowercase: %q", name)
	}
	if !npmPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid npm package name: %q", name)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	return nil
}

// ValidateRedirect reports whether target is a same-site path safe to
// redirect to. Absolute URLs are only accepted for the given allowed hosts.
func ValidateRedirect(target string, allowedPrefixes ...string) error {
	if target == "" {
		return New(ErrCodeInvalidInput, "redirect target cannot be empty")
	}
	// Browsers read '\' as '/' and drop tabs and newlines, which turns
	// "/\host" or "/\t/host" into a protocol-relative URL.
	for _, r := range target {
		if r == '\\' || unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "redirect target not allowed: %q", target)
		}
	}
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") {
		u, err := url.Parse(target)
		if err == nil && u.Scheme == "" && u.Host == "" {
			return nil
		}
		return New(ErrCodeInvalidInput, "redirect target not allowed: %q", target)
	}
	for _, p := range allowedPrefixes {
		if strings.HasPrefix(target, p) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "redirect target not allowed: %q", target)
}
