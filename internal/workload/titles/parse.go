package titles

import (
	"bytes"
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoTitle is returned when a page has no <title> element
var ErrNoTitle = errors.New("page has no title")

// ExtractTitle returns the whitespace-trimmed text of the first <title>
// element in page
func ExtractTitle(page []byte) (string, error) {
	z := html.NewTokenizer(bytes.NewReader(page))

	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", ErrNoTitle

		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) != "title" {
				continue
			}

			var sb strings.Builder
			for {
				tt := z.Next()
				if tt == html.TextToken {
					sb.Write(z.Text())
					continue
				}
				break
			}
			return strings.TrimSpace(sb.String()), nil
		}
	}
}
