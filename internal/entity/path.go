package entity

import "strings"

const PrefixImages = "images/"

// Objects under these prefixes are stored at their request path verbatim,
// without the images/ prefix. Profile pictures were uploaded that way from
// the start, so the exception has to stay.
var verbatimPrefixes = []string{
	"profile-pictures/",
}

// ObjectKey resolves a public image path to its storage key.
func ObjectKey(path string) string {
	for _, prefix := range verbatimPrefixes {
		if strings.HasPrefix(path, prefix) {
			return path
		}
	}

	return PrefixImages + path
}
