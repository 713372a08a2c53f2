package wordpress

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Link is an anchor found in post content.
type Link struct {
	Href string
	Text string
}

// Text returns the visible text of an HTML fragment with whitespace collapsed.
func Text(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			if isHidden(z) {
				skip++
			}
		case html.EndTagToken:
			if isHidden(z) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
				b.WriteByte(' ')
			}
		}
	}
}

func isHidden(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	tag := string(name)
	return tag == "script" || tag == "style"
}

// WordCount counts whitespace-separated words of the visible text.
func WordCount(fragment string) int {
	return len(strings.Fields(Text(fragment)))
}

// Links returns every anchor with an href, in document order.
func Links(fragment string) []Link {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var links []Link
	var current *Link
	var text strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return links
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "a" || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "href" {
					current = &Link{Href: strings.TrimSpace(string(val))}
				}
				if !more {
					break
				}
			}
			text.Reset()
		case html.TextToken:
			if current != nil {
				text.Write(z.Text())
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "a" && current != nil {
				current.Text = strings.Join(strings.Fields(text.String()), " ")
				links = append(links, *current)
				current = nil
			}
		}
	}
}

// SameURL reports whether two links point at the same page, ignoring the
// scheme, a leading "www.", letter case of the host, a trailing slash and any
// fragment.
func SameURL(a, b string) bool {
	return urlKey(a) == urlKey(b)
}

func urlKey(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.TrimRight(raw, "/")
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	key := host + strings.TrimRight(u.EscapedPath(), "/")
	if u.RawQuery != "" {
		key += "?" + u.RawQuery
	}
	return key
}
