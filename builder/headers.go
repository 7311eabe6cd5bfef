package builder

import (
	"iter"
	"regexp"
)

// headerRe matches one `<!-- key: value -->` line anchored at the start of
// the remaining text, along with any whitespace around it.
var headerRe = regexp.MustCompile(`^\s*<!--\s*(.+?)\s*:\s*(.+?)\s*-->\s*`)

// Header is a single metadata line read from the top of a content file.
// End is the byte offset in the source text right after the header and
// the whitespace that follows it.
type Header struct {
	Key   string
	Value string
	End   int
}

// Headers lazily yields the leading headers of text, in order.
// The sequence stops at the first line that is not a header.
func Headers(text string) iter.Seq[Header] {
	return func(yield func(Header) bool) {
		offset := 0
		for offset < len(text) {
			m := headerRe.FindStringSubmatchIndex(text[offset:])
			if m == nil {
				return
			}

			h := Header{
				Key:   text[offset+m[2] : offset+m[3]],
				Value: text[offset+m[4] : offset+m[5]],
				End:   offset + m[1],
			}
			if !yield(h) {
				return
			}
			offset = h.End
		}
	}
}

// SplitHeaders reads all leading headers and returns them with the body
// text that follows. Without headers the body is the whole text.
func SplitHeaders(text string) ([]Header, string) {
	var headers []Header
	end := 0
	for h := range Headers(text) {
		headers = append(headers, h)
		end = h.End
	}
	return headers, text[end:]
}
