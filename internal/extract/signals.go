package extract

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/seoscan/seoscan/internal/model"
)

// PageSignals holds the raw on-page signals collected in one DOM pass.
// All rule evaluation happens against this struct, so the parser and
// the rule table stay decoupled.
type PageSignals struct {
	// Title is the text of the first <title> element.
	Title string

	// MetaDescription is the content of <meta name="description">.
	MetaDescription string

	// HasViewport reports whether a <meta name="viewport"> tag exists.
	HasViewport bool

	// HasCharset reports whether the document declares a character set,
	// either <meta charset> or the http-equiv Content-Type form.
	HasCharset bool

	// H1Count, H2Count, H3Count are heading element counts.
	H1Count int
	H2Count int
	H3Count int

	// ImageCount is the total number of <img> elements.
	ImageCount int

	// ImagesMissingAlt counts <img> elements with no alt attribute.
	ImagesMissingAlt int

	// ImagesEmptyAlt counts <img> elements whose alt attribute is
	// present but blank. Decorative images legitimately use alt="",
	// which is why this deducts less than a missing attribute.
	ImagesEmptyAlt int

	// HasStructuredData reports whether the page embeds structured
	// markup: a JSON-LD script or microdata itemscope attributes.
	HasStructuredData bool

	// OGTitle, OGDescription, OGImage report the presence of the three
	// core Open Graph meta properties.
	OGTitle       bool
	OGDescription bool
	OGImage       bool

	// HasCanonical reports whether a <link rel="canonical"> exists.
	HasCanonical bool
}

// OpenGraphCount returns how many of the three core Open Graph tags
// are present.
func (s *PageSignals) OpenGraphCount() int {
	count := 0
	if s.OGTitle {
		count++
	}
	if s.OGDescription {
		count++
	}
	if s.OGImage {
		count++
	}
	return count
}

// RawMap converts the signals into the raw-signal map carried on the
// analysis record and fed to report generation.
func (s *PageSignals) RawMap() model.RawSignals {
	return model.RawSignals{
		"titleLength":           len(s.Title),
		"metaDescriptionLength": len(s.MetaDescription),
		"hasViewport":           s.HasViewport,
		"hasCharset":            s.HasCharset,
		"h1Count":               s.H1Count,
		"h2Count":               s.H2Count,
		"h3Count":               s.H3Count,
		"imageCount":            s.ImageCount,
		"imagesMissingAlt":      s.ImagesMissingAlt,
		"imagesEmptyAlt":        s.ImagesEmptyAlt,
		"hasStructuredData":     s.HasStructuredData,
		"openGraphTags":         s.OpenGraphCount(),
		"hasCanonical":          s.HasCanonical,
	}
}

// ParseSignals parses HTML markup and collects page signals.
//
// Design decision: We use golang.org/x/net/html rather than regex
// because:
//  1. It correctly handles malformed HTML common on the web
//  2. Provides a proper DOM-like structure
//  3. More maintainable than complex regex patterns
func ParseSignals(content io.Reader) (*PageSignals, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	signals := &PageSignals{}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			processElement(n, signals)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return signals, nil
}

// processElement collects signals from a single element node.
func processElement(n *html.Node, signals *PageSignals) {
	// Microdata can appear on any element.
	if hasAttr(n, "itemscope") {
		signals.HasStructuredData = true
	}

	switch n.Data {
	case "title":
		if signals.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			signals.Title = strings.TrimSpace(n.FirstChild.Data)
		}

	case "meta":
		processMeta(n, signals)

	case "link":
		if strings.EqualFold(getAttr(n, "rel"), "canonical") && getAttr(n, "href") != "" {
			signals.HasCanonical = true
		}

	case "h1":
		signals.H1Count++
	case "h2":
		signals.H2Count++
	case "h3":
		signals.H3Count++

	case "img":
		signals.ImageCount++
		alt, ok := lookupAttr(n, "alt")
		switch {
		case !ok:
			signals.ImagesMissingAlt++
		case strings.TrimSpace(alt) == "":
			signals.ImagesEmptyAlt++
		}

	case "script":
		if strings.EqualFold(getAttr(n, "type"), "application/ld+json") {
			signals.HasStructuredData = true
		}
	}
}

// processMeta collects signals from a <meta> element.
func processMeta(n *html.Node, signals *PageSignals) {
	if getAttr(n, "charset") != "" {
		signals.HasCharset = true
	}
	if strings.EqualFold(getAttr(n, "http-equiv"), "content-type") {
		signals.HasCharset = true
	}

	name := strings.ToLower(getAttr(n, "name"))
	content := getAttr(n, "content")

	switch name {
	case "description":
		if signals.MetaDescription == "" {
			signals.MetaDescription = strings.TrimSpace(content)
		}
	case "viewport":
		signals.HasViewport = true
	}

	// Open Graph uses the property attribute, not name.
	switch strings.ToLower(getAttr(n, "property")) {
	case "og:title":
		signals.OGTitle = true
	case "og:description":
		signals.OGDescription = true
	case "og:image":
		signals.OGImage = true
	}
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

// lookupAttr retrieves an attribute value and whether it was present.
func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val, true
		}
	}
	return "", false
}

// hasAttr reports whether an attribute is present, regardless of value.
func hasAttr(n *html.Node, key string) bool {
	_, ok := lookupAttr(n, key)
	return ok
}
