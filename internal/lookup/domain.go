package lookup

import (
	"fmt"
	"strings"
)

// Domain is a validated, normalized hostname. A Domain is only ever
// produced by Validate; downstream code relies on it being well-formed
// and never re-checks it.
type Domain string

func (d Domain) String() string { return string(d) }

// ValidationError reports why a candidate domain was rejected. It is
// returned before any network activity; the caller decides whether to
// abort or re-prompt.
type ValidationError struct {
	Raw    string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid domain %q: %s", e.Raw, e.Reason)
}

const (
	maxDomainLength = 253
	maxLabelLength  = 63
)

// Validate normalizes and syntactically validates a candidate domain.
//
// For convenience both bare domains and URLs are accepted: a leading
// http:// or https:// scheme and anything after the first slash are
// stripped before validation. The result is lowercased and a single
// trailing dot (the DNS root) is removed.
func Validate(raw string) (Domain, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.TrimPrefix(name, "http://")
	name = strings.TrimPrefix(name, "https://")
	if i := strings.IndexByte(name, '/'); i >= 0 {
		name = name[:i]
	}

	if name == "" {
		return "", &ValidationError{Raw: raw, Reason: "empty domain"}
	}

	// A single trailing dot denotes the DNS root and is permitted.
	if strings.HasSuffix(name, ".") {
		name = name[:len(name)-1]
		if name == "" {
			return "", &ValidationError{Raw: raw, Reason: "empty domain"}
		}
	}

	if len(name) > maxDomainLength {
		return "", &ValidationError{Raw: raw, Reason: fmt.Sprintf("longer than %d characters", maxDomainLength)}
	}

	for _, label := range strings.Split(name, ".") {
		if err := checkLabel(label); err != "" {
			return "", &ValidationError{Raw: raw, Reason: err}
		}
	}

	return Domain(name), nil
}

// checkLabel enforces the LDH label grammar: 1..63 characters from
// [a-z0-9-], not starting or ending with a hyphen. Returns "" when valid.
func checkLabel(label string) string {
	if label == "" {
		return "empty label (consecutive or leading dot)"
	}
	if len(label) > maxLabelLength {
		return fmt.Sprintf("label %q longer than %d characters", label, maxLabelLength)
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return fmt.Sprintf("label %q starts or ends with a hyphen", label)
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return fmt.Sprintf("label %q contains invalid character %q", label, c)
		}
	}
	return ""
}
