package render

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	xhtml "golang.org/x/net/html"
)

// HTMLToText converts the markdown-rendered HTML the blog serves into
// wrapped plain text. It understands headings, paragraphs, lists, emphasis,
// inline code, code blocks and links.
func HTMLToText(raw string, width int) string {
	if raw == "" {
		return ""
	}

	tokenizer := xhtml.NewTokenizer(strings.NewReader(raw))
	var sb strings.Builder
	var inPre, inCode bool
	var anchorURL string
	var listDepth int

	newBlock := func() {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
	}

	for {
		tt := tokenizer.Next()
		switch tt {
		case xhtml.ErrorToken:
			return Wrap(strings.TrimSpace(sb.String()), width)

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			t := tokenizer.Token()
			switch t.Data {
			case "p", "blockquote":
				newBlock()
			case "h1", "h2", "h3", "h4", "h5", "h6":
				newBlock()
				sb.WriteString(strings.Repeat("#", int(t.Data[1]-'0')))
				sb.WriteString(" ")
			case "ul", "ol":
				if listDepth == 0 {
					newBlock()
				}
				listDepth++
			case "li":
				if !strings.HasSuffix(sb.String(), "\n") {
					sb.WriteString("\n")
				}
				sb.WriteString(strings.Repeat("  ", max(0, listDepth-1)))
				sb.WriteString("- ")
			case "br":
				sb.WriteString("\n")
			case "i", "em":
				sb.WriteString("*")
			case "b", "strong":
				sb.WriteString("**")
			case "code":
				if !inPre {
					sb.WriteString("`")
				}
				inCode = true
			case "pre":
				inPre = true
				newBlock()
			case "a":
				for _, attr := range t.Attr {
					if attr.Key == "href" {
						anchorURL = attr.Val
					}
				}
			}

		case xhtml.EndTagToken:
			t := tokenizer.Token()
			switch t.Data {
			case "ul", "ol":
				listDepth = max(0, listDepth-1)
			case "i", "em":
				sb.WriteString("*")
			case "b", "strong":
				sb.WriteString("**")
			case "code":
				if !inPre {
					sb.WriteString("`")
				}
				inCode = false
			case "pre":
				inPre = false
			case "a":
				if anchorURL != "" {
					text := strings.TrimSpace(sb.String())
					// Only append URL if it differs from the link text.
					if !strings.HasSuffix(text, anchorURL) {
						sb.WriteString(" [")
						sb.WriteString(anchorURL)
						sb.WriteString("]")
					}
				}
				anchorURL = ""
			}

		case xhtml.TextToken:
			text := tokenizer.Token().Data
			if inPre {
				// Preserve whitespace in pre blocks, indent with 4 spaces.
				lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
				for i, line := range lines {
					if i > 0 {
						sb.WriteString("\n")
					}
					if line != "" {
						sb.WriteString("    ")
						sb.WriteString(line)
					}
				}
			} else if inCode {
				sb.WriteString(text)
			} else {
				writeInline(&sb, text)
			}
		}
	}
}

// writeInline appends text with runs of whitespace collapsed, keeping a
// single space at the edges so adjacent inline elements stay separated.
func writeInline(sb *strings.Builder, text string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		if strings.Contains(text, " ") && !strings.Contains(text, "\n") && !endsWithSpace(sb.String()) {
			sb.WriteString(" ")
		}
		return
	}
	if r, _ := utf8.DecodeRuneInString(text); unicode.IsSpace(r) && sb.Len() > 0 && !endsWithSpace(sb.String()) {
		sb.WriteString(" ")
	}
	sb.WriteString(strings.Join(fields, " "))
	if r, _ := utf8.DecodeLastRuneInString(text); unicode.IsSpace(r) {
		sb.WriteString(" ")
	}
}

func endsWithSpace(s string) bool {
	if s == "" {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(r)
}

// Wrap performs simple word wrapping to the given width. Lines indented
// by four spaces are left as they are.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var result strings.Builder
	for _, paragraph := range strings.Split(text, "\n") {
		if strings.HasPrefix(paragraph, "    ") {
			// Don't wrap code blocks.
			result.WriteString(paragraph)
			result.WriteString("\n")
			continue
		}
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}
		lineLen := 0
		for i, word := range words {
			wlen := utf8.RuneCountInString(word)
			if i > 0 && lineLen+1+wlen > width {
				result.WriteString("\n")
				lineLen = 0
			} else if i > 0 {
				result.WriteString(" ")
				lineLen++
			}
			result.WriteString(word)
			lineLen += wlen
		}
		result.WriteString("\n")
	}
	return strings.TrimRight(result.String(), "\n")
}

// Excerpt returns the first n runes of s with "..." appended when cut.
func Excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

// TimeAgo formats t relative to now.
func TimeAgo(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour") + " ago"
	case d < 30*24*time.Hour:
		return plural(int(d.Hours()/24), "day") + " ago"
	default:
		return Date(t)
	}
}

// Date formats t as a local calendar date.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02")
}

// Until formats the time left before t, e.g. "3h", or "expired".
func Until(t time.Time) string {
	d := time.Until(t)
	switch {
	case d <= 0:
		return "expired"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
