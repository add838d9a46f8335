package classify

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Previews are what the history list renders; keep them short and safe.
const previewLimit = 100

const (
	previewImage = "[Image]"
	previewFile  = "[File]"
)

var (
	scriptStyleBlock = regexp.MustCompile(`(?is)<(script|style)\b[^>]*>.*?</(script|style)>`)
	htmlComment      = regexp.MustCompile(`(?s)<!--.*?-->`)

	rtfControlWord = regexp.MustCompile(`\\[a-zA-Z]+-?\d*\s?`)
	rtfHexEscape   = regexp.MustCompile(`\\'[0-9a-fA-F]{2}`)
	rtfGroupStart  = regexp.MustCompile(`\{\\\*[^}]*\}`)
)

// Preview builds the ≤100-character list representation of content.
// Markup formats are reduced to their text; image and file payloads get a
// fixed placeholder. Extraction failures degrade to the raw content rather
// than blocking the capture.
func Preview(content string, format Format) string {
	switch format {
	case FormatImage:
		return previewImage
	case FormatFile:
		return previewFile
	case FormatHTML:
		return truncate(collapseSpace(htmlToText(content)))
	case FormatRTF:
		return truncate(collapseSpace(rtfToText(content)))
	default:
		return truncate(collapseSpace(content))
	}
}

// PlainText reduces markup content to its full text without truncation.
// Used by the paste path to build a plain-text fallback channel for rich
// entries. Non-markup formats pass through unchanged.
func PlainText(content string, format Format) string {
	switch format {
	case FormatHTML:
		return collapseSpace(htmlToText(content))
	case FormatRTF:
		return collapseSpace(rtfToText(content))
	default:
		return content
	}
}

// htmlToText extracts the visible text of an HTML fragment, dropping
// script/style/comment content and decoding entities. If the tokenizer fails
// outright a regex strip of the same input is returned instead.
func htmlToText(markup string) string {
	markup = scriptStyleBlock.ReplaceAllString(markup, "")
	markup = htmlComment.ReplaceAllString(markup, "")

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if b.Len() == 0 {
				// Malformed enough that no text surfaced; fall back to a
				// plain tag strip so the preview is never empty markup.
				return anyTag.ReplaceAllString(markup, " ")
			}
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
			b.WriteByte(' ')
		}
	}
}

// rtfToText strips RTF control words, destination groups and braces, leaving
// the document text.
func rtfToText(markup string) string {
	s := rtfGroupStart.ReplaceAllString(markup, "")
	s = rtfHexEscape.ReplaceAllString(s, " ")
	s = rtfControlWord.ReplaceAllString(s, " ")
	s = strings.NewReplacer("{", "", "}", "", "\\", "").Replace(s)
	return s
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= previewLimit {
		return s
	}
	return string(r[:previewLimit]) + "…"
}
