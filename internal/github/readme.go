package github

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

const defaultBranch = "main"

// ExtractFirstImage returns the src of the first <img> element in a README,
// resolved against the raw content host when it is a repository-relative path.
// It returns "" when the README has no usable image.
func ExtractFirstImage(readme, rawBaseURL, owner, repo, branch string) string {
	src, ok := firstImageSrc(readme)
	if !ok {
		return ""
	}
	return resolveImage(src, rawBaseURL, owner, repo, branch)
}

func firstImageSrc(readme string) (string, bool) {
	z := html.NewTokenizer(strings.NewReader(readme))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "img" {
				continue
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "src" {
					return string(val), true
				}
			}
		}
	}
}

func resolveImage(src, rawBaseURL, owner, repo, branch string) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	if strings.HasPrefix(src, "//") {
		return src
	}
	if u, err := url.Parse(src); err == nil && u.Scheme != "" {
		return src
	}

	src = strings.TrimPrefix(src, "./")
	src = strings.TrimLeft(src, "/")
	if branch == "" {
		branch = defaultBranch
	}
	return strings.TrimRight(rawBaseURL, "/") + "/" + owner + "/" + repo + "/" + branch + "/" + src
}
