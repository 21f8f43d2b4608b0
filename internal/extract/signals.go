package extract

import "strings"

// Signal identifies one metadata source in a document: the first element
// whose identifying attribute carries one of Values.
type Signal struct {
	// Name is a short label used in reports and logs, e.g. "og:image".
	Name string

	// Tag restricts matching to one element name. Empty matches any element.
	Tag string

	// Attrs are the identifying attributes checked, in order.
	Attrs []string

	// Values are accepted identifying values, compared case-insensitively
	// with whitespace collapsed.
	Values []string

	// From is the attribute holding the signal's value. Empty means the
	// element's text content.
	From string
}

var (
	TwitterImage   = Signal{Name: "twitter:image", Attrs: []string{"name"}, Values: []string{"twitter:image"}, From: "content"}
	OGImage        = Signal{Name: "og:image", Attrs: []string{"property"}, Values: []string{"og:image"}, From: "content"}
	ShortcutIcon   = Signal{Name: "shortcut icon", Attrs: []string{"rel"}, Values: []string{"shortcut icon", "icon"}, From: "href"}
	AppleTouchIcon = Signal{Name: "apple-touch-icon", Attrs: []string{"rel"}, Values: []string{"apple-touch-icon"}, From: "href"}

	TwitterTitle  = Signal{Name: "twitter:title", Attrs: []string{"name"}, Values: []string{"twitter:title"}, From: "content"}
	OGTitle       = Signal{Name: "og:title", Attrs: []string{"property"}, Values: []string{"og:title"}, From: "content"}
	DocumentTitle = Signal{Name: "title", Tag: "title"}

	TwitterDescription = Signal{Name: "twitter:description", Attrs: []string{"name"}, Values: []string{"twitter:description"}, From: "content"}
	OGDescription      = Signal{Name: "og:description", Attrs: []string{"property"}, Values: []string{"og:description"}, From: "content"}
	PageDescription    = Signal{Name: "description", Attrs: []string{"property", "name"}, Values: []string{"description"}, From: "content"}
)

// Precedence lists, per output field, the signals consulted from most to
// least preferred.
type Precedence struct {
	Title       []Signal
	Description []Signal
	Image       []Signal
}

// DefaultPrecedence checks twitter card signals before Open Graph ones, and
// social images before icons.
func DefaultPrecedence() Precedence {
	return Precedence{
		Title:       []Signal{TwitterTitle, OGTitle, DocumentTitle},
		Description: []Signal{TwitterDescription, OGDescription, PageDescription},
		Image:       []Signal{TwitterImage, OGImage, ShortcutIcon, AppleTouchIcon},
	}
}

// OGImageFirst is DefaultPrecedence with og:image consulted before
// twitter:image.
func OGImageFirst() Precedence {
	p := DefaultPrecedence()
	p.Image = []Signal{OGImage, TwitterImage, ShortcutIcon, AppleTouchIcon}
	return p
}

func (s Signal) identifies(tag string, attr func(string) (string, bool)) bool {
	if s.Tag != "" && s.Tag != tag {
		return false
	}
	if len(s.Attrs) == 0 {
		return s.Tag != ""
	}
	for _, a := range s.Attrs {
		v, ok := attr(a)
		if !ok {
			continue
		}
		v = normalizeToken(v)
		for _, want := range s.Values {
			if v == want {
				return true
			}
		}
	}
	return false
}

func normalizeToken(v string) string {
	return strings.ToLower(strings.Join(strings.Fields(v), " "))
}

func (p Precedence) all() []Signal {
	out := make([]Signal, 0, len(p.Title)+len(p.Description)+len(p.Image))
	out = append(out, p.Title...)
	out = append(out, p.Description...)
	out = append(out, p.Image...)
	return out
}
