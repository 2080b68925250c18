package implicit

import (
	"regexp"
	"strings"
)

var schemePrefix = regexp.MustCompile(`^(https?)://`)

// CanonicalURL prefixes the host of rawURL with "www." unless it already
// looks qualified.
//
// A URL looks qualified when it holds two dots with no "/" between them and
// at least two bytes (other than a newline) after the second one, so
// "https://www.instagram.com/x" and "http://127.0.0.1/" are kept while
// "https://instagram.com/x" becomes "https://www.instagram.com/x". Only
// http and https URLs are rewritten.
func CanonicalURL(rawURL string) string {
	if looksQualified(rawURL) {
		return rawURL
	}
	return schemePrefix.ReplaceAllString(rawURL, "$1://www.")
}

func looksQualified(s string) bool {
	first := strings.IndexByte(s, '.')
	for first >= 0 {
		rest := s[first+1:]
		for i := 0; i < len(rest); i++ {
			if rest[i] == '/' {
				break
			}
			if rest[i] == '.' && tailLen(rest[i+1:]) >= 2 {
				return true
			}
		}
		next := strings.IndexByte(rest, '.')
		if next < 0 {
			return false
		}
		first += next + 1
	}
	return false
}

// tailLen counts the leading bytes of s up to the first newline.
func tailLen(s string) int {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return i
	}
	return len(s)
}
