// Package classify decides how a captured clipboard payload should be
// interpreted: its authoritative format, a finer semantic content type used
// for iconography, the human-facing category label, and a short list preview.
//
// Everything here is pure and deterministic. Classification must never block
// a capture, so helpers fall back to the least-processed safe value instead
// of returning errors.
package classify

import (
	"net/url"
	"regexp"
	"strings"

	"go.klb.dev/clipstash/internal/clip"
)

// Format determines how entry content must be interpreted and how it is
// re-serialised onto the OS clipboard on paste.
type Format string

const (
	FormatText  Format = "text"
	FormatImage Format = "image"
	FormatFile  Format = "file"
	FormatHTML  Format = "html"
	FormatRTF   Format = "rtf"
)

// ContentType is the finer semantic tag derived from format plus pattern
// matching on plain-text content.
type ContentType string

const (
	TypeText     ContentType = "text"
	TypeURL      ContentType = "url"
	TypeEmail    ContentType = "email"
	TypePhone    ContentType = "phone"
	TypeCode     ContentType = "code"
	TypeRichText ContentType = "rich-text"
	TypeImage    ContentType = "image"
	TypeFile     ContentType = "file"
)

// Category labels as shown in the history list.
const (
	CategoryText          = "Text"
	CategoryURLs          = "URLs"
	CategoryEmail         = "Email Addresses"
	CategoryPhone         = "Phone Numbers"
	CategoryCode          = "Code"
	CategoryRichText      = "Rich Text"
	CategoryImages        = "Images"
	CategoryFiles         = "Files"
	CategoryUncategorized = "Uncategorized"
)

// Formatting tags whose presence marks an HTML channel as genuinely rich.
var richTags = regexp.MustCompile(`(?i)<\s*(b|strong|i|em|u|s|strike|h[1-6]|p|div|span|a|img|table|tr|td|th|ul|ol|li|blockquote|pre|code|br|hr|font)\b`)

var (
	htmlWrapperNoise = regexp.MustCompile(`(?is)<!--.*?-->|<!DOCTYPE[^>]*>|<title[^>]*>.*?</title>|<script[^>]*>.*?</script>|<style[^>]*>.*?</style>|<\s*/?\s*(html|head|body|meta|link)\b[^>]*>`)
	inlineStyleAttr  = regexp.MustCompile(`(?i)\bstyle\s*=\s*["']`)
	anyTag           = regexp.MustCompile(`<[^>]*>`)
)

// Classification is the full result of classifying one captured payload.
type Classification struct {
	Format      Format
	ContentType ContentType
	Category    string
	Preview     string
}

// Snapshot classifies a text-family clipboard snapshot in one call.
// autoCategories gates heuristic categorisation; format-mandated categories
// are always applied.
func Snapshot(snap clip.Snapshot, autoCategories bool) Classification {
	format := FormatOf(snap)
	content := snap.Text
	switch format {
	case FormatHTML:
		content = snap.HTML
	case FormatRTF:
		content = snap.RTF
	}
	ct := DetectContentType(content, format)
	return Classification{
		Format:      format,
		ContentType: ct,
		Category:    Categorize(ct, autoCategories),
		Preview:     Preview(content, format),
	}
}

// FormatOf decides the authoritative format of a text-family snapshot.
// An HTML channel wins if it is present and judged rich; an RTF channel wins
// if it is present and differs from the plain text; otherwise the capture is
// plain text. Images and files are detected by their own channels and never
// reach this decision.
func FormatOf(snap clip.Snapshot) Format {
	if snap.HTML != "" && IsRichHTML(snap.HTML, snap.Text) {
		return FormatHTML
	}
	if snap.RTF != "" && snap.RTF != snap.Text {
		return FormatRTF
	}
	return FormatText
}

// IsRichHTML reports whether html carries formatting beyond the plain-text
// channel. Many applications populate the HTML channel with inert wrapper
// markup even for plain copies; this predicate keeps those captures as text.
func IsRichHTML(html, plain string) bool {
	stripped := htmlWrapperNoise.ReplaceAllString(html, "")
	if richTags.MatchString(stripped) {
		return true
	}
	if inlineStyleAttr.MatchString(stripped) {
		return true
	}
	text := collapseSpace(anyTag.ReplaceAllString(stripped, ""))
	return text != collapseSpace(plain)
}

// DetectContentType maps content plus format to a semantic type. Rich-text
// formats always win regardless of what the content matches; plain text runs
// the URL, email, phone and code detectors in that order, first match wins.
func DetectContentType(content string, format Format) ContentType {
	switch format {
	case FormatImage:
		return TypeImage
	case FormatFile:
		return TypeFile
	case FormatHTML, FormatRTF:
		return TypeRichText
	}

	trimmed := strings.TrimSpace(content)
	switch {
	case isURL(trimmed):
		return TypeURL
	case matchesAny(emailPatterns, trimmed):
		return TypeEmail
	case matchesAny(phonePatterns, trimmed):
		return TypePhone
	case matchesAny(codePatterns, content):
		return TypeCode
	}
	return TypeText
}

// Categorize maps a content type to its display category. When autoCategories
// is off, everything that is not mandated by format collapses to
// "Uncategorized" — format-derived categories reflect what the payload is,
// not a heuristic guess, so they always apply.
func Categorize(ct ContentType, autoCategories bool) string {
	switch ct {
	case TypeRichText:
		return CategoryRichText
	case TypeImage:
		return CategoryImages
	case TypeFile:
		return CategoryFiles
	}
	if !autoCategories {
		return CategoryUncategorized
	}
	switch ct {
	case TypeURL:
		return CategoryURLs
	case TypeEmail:
		return CategoryEmail
	case TypePhone:
		return CategoryPhone
	case TypeCode:
		return CategoryCode
	default:
		return CategoryText
	}
}

// isURL tries strict parsing first and only then the permissive fallbacks.
func isURL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}
	if u, err := url.Parse(s); err == nil && u.Scheme != "" && u.Host != "" {
		return true
	}
	return matchesAny(urlPatterns, s)
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	if s == "" {
		return false
	}
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

var spaceRun = regexp.MustCompile(`\s+`)

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}
