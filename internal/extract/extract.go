// Package extract turns raw, possibly malformed HTML into a best-effort
// title/description/image record.
package extract

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/MrSnakeDoc/letterplace/internal/domain"
)

// Candidate is one signal value found in a document.
type Candidate struct {
	Signal string `json:"signal"`
	Value  string `json:"value"`
}

// Report is the extraction result together with the distinct candidates
// seen for each field, in precedence order.
type Report struct {
	Record     domain.MetadataRecord  `json:"meta"`
	Candidates map[string][]Candidate `json:"candidates"`
}

// Extractor is stateless apart from its precedence table and safe for
// concurrent use.
type Extractor struct {
	precedence Precedence
}

type Option func(*Extractor)

// WithPrecedence overrides the signal order.
func WithPrecedence(p Precedence) Option {
	return func(x *Extractor) { x.precedence = p }
}

// New creates an extractor using DefaultPrecedence unless overridden.
func New(opts ...Option) *Extractor {
	x := &Extractor{precedence: DefaultPrecedence()}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

var defaultExtractor = New()

// Extract runs the default extractor.
func Extract(sourceURL, htmlText string) domain.MetadataRecord {
	return defaultExtractor.Extract(sourceURL, htmlText)
}

// Extract never fails: anything it cannot read is reported as absent.
func (x *Extractor) Extract(sourceURL, htmlText string) domain.MetadataRecord {
	return x.Inspect(sourceURL, htmlText).Record
}

// Inspect is Extract plus the candidate lists behind each chosen value.
func (x *Extractor) Inspect(sourceURL, htmlText string) (report Report) {
	report = Report{
		Record:     domain.MetadataRecord{URL: sourceURL},
		Candidates: map[string][]Candidate{},
	}

	defer func() {
		if r := recover(); r != nil {
			report = Report{
				Record:     domain.MetadataRecord{URL: sourceURL},
				Candidates: map[string][]Candidate{},
			}
		}
	}()

	doc, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		return report
	}

	found := collect(doc, x.precedence.all())

	title := distinct(x.precedence.Title, found)
	desc := distinct(x.precedence.Description, found)
	image := distinct(x.precedence.Image, found)

	report.Candidates["title"] = title
	report.Candidates["description"] = desc
	report.Candidates["image"] = image

	report.Record.Title = first(title)
	report.Record.Description = first(desc)
	if img := first(image); img != nil {
		resolved := ResolveImage(sourceURL, *img)
		report.Record.Image = &resolved
	}

	return report
}

// collect walks the tree once and records the value of the first element
// matching each signal. Signals whose value cannot be read stay absent.
func collect(doc *html.Node, signals []Signal) map[string]string {
	found := make(map[string]string, len(signals))
	matched := make(map[string]bool, len(signals))

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, s := range signals {
				if matched[s.Name] {
					continue
				}
				if v, ok := readSignal(s, n); ok {
					matched[s.Name] = true
					found[s.Name] = v
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return found
}

func readSignal(s Signal, n *html.Node) (value string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			value, ok = "", false
		}
	}()

	if !s.identifies(n.Data, func(key string) (string, bool) { return attr(n, key) }) {
		return "", false
	}
	if s.From == "" {
		return clean(textContent(n)), true
	}
	v, _ := attr(n, s.From)
	return clean(v), true
}

// clean trims v and replaces invalid UTF-8 so stores and JSON see the same text.
func clean(v string) string {
	return strings.TrimSpace(strings.ToValidUTF8(v, "\uFFFD"))
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// distinct returns the non-empty values of signals in order, keeping only
// the first occurrence of each value.
func distinct(signals []Signal, found map[string]string) []Candidate {
	out := make([]Candidate, 0, len(signals))
	seen := make(map[string]bool, len(signals))
	for _, s := range signals {
		v, ok := found[s.Name]
		if !ok || v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, Candidate{Signal: s.Name, Value: v})
	}
	return out
}

func first(c []Candidate) *string {
	if len(c) == 0 {
		return nil
	}
	v := c[0].Value
	return &v
}

// ResolveImage makes a root-relative image path absolute against the origin
// of sourceURL. Absolute and protocol-relative values are returned as is.
func ResolveImage(sourceURL, image string) string {
	if !strings.HasPrefix(image, "/") || strings.HasPrefix(image, "//") {
		return image
	}

	u, err := url.Parse(sourceURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return image
	}

	origin := strings.TrimSuffix(u.Scheme+"://"+u.Host, "/")
	return origin + "/" + strings.TrimPrefix(image, "/")
}
