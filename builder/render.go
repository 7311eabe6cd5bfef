package builder

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMissingKey is returned by FailOnMissing rendering when a placeholder
// has no matching parameter.
var ErrMissingKey = errors.New("missing template parameter")

var placeholderRe = regexp.MustCompile(`\{\{\s*([^}\s]+)\s*\}\}`)

// MissingKeyPolicy decides what happens to a placeholder whose name is not
// in the parameters.
type MissingKeyPolicy int

const (
	// PassthroughLiteral leaves the placeholder in the output exactly as written.
	PassthroughLiteral MissingKeyPolicy = iota
	// EmptyString replaces the placeholder with nothing.
	EmptyString
	// FailOnMissing aborts rendering with ErrMissingKey.
	FailOnMissing
)

var policyNames = map[string]MissingKeyPolicy{
	"":            PassthroughLiteral,
	"passthrough": PassthroughLiteral,
	"empty":       EmptyString,
	"error":       FailOnMissing,
}

// ParseMissingKeyPolicy maps a configuration name to a policy. An empty
// name selects PassthroughLiteral.
func ParseMissingKeyPolicy(name string) (MissingKeyPolicy, error) {
	p, ok := policyNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown missing key policy %q", name)
	}
	return p, nil
}

func (p MissingKeyPolicy) String() string {
	switch p {
	case PassthroughLiteral:
		return "passthrough"
	case EmptyString:
		return "empty"
	case FailOnMissing:
		return "error"
	}
	return fmt.Sprintf("MissingKeyPolicy(%d)", int(p))
}

// Renderer substitutes {{ name }} placeholders in templates.
type Renderer struct {
	Missing MissingKeyPolicy
}

// Render replaces every placeholder in tmpl with its value from params.
// Substituted values are not scanned again.
func (r Renderer) Render(tmpl string, params Params) (string, error) {
	matches := placeholderRe.FindAllStringSubmatchIndex(tmpl, -1)
	if len(matches) == 0 {
		return tmpl, nil
	}

	var b strings.Builder
	b.Grow(len(tmpl))

	last := 0
	for _, m := range matches {
		b.WriteString(tmpl[last:m[0]])
		last = m[1]

		name := tmpl[m[2]:m[3]]
		if v, ok := params.Lookup(name); ok {
			b.WriteString(v)
			continue
		}

		switch r.Missing {
		case PassthroughLiteral:
			b.WriteString(tmpl[m[0]:m[1]])
		case EmptyString:
		case FailOnMissing:
			return "", fmt.Errorf("%w: %s", ErrMissingKey, name)
		}
	}
	b.WriteString(tmpl[last:])

	return b.String(), nil
}

// Render substitutes placeholders leaving unknown ones untouched.
func Render(tmpl string, params Params) string {
	out, _ := Renderer{Missing: PassthroughLiteral}.Render(tmpl, params)
	return out
}
