package literal

import "strings"

// LangMatches implements the SPARQL langMatches operator: basic language
// range filtering per RFC 4647. A range of "*" matches any non-empty tag;
// otherwise the range must equal the tag or be a prefix of it followed by
// a subtag boundary, compared case-insensitively.
func LangMatches(tag, langRange string) bool {
	if tag == "" {
		return false
	}
	if langRange == "*" {
		return true
	}
	tag = strings.ToLower(tag)
	langRange = strings.ToLower(langRange)
	if tag == langRange {
		return true
	}
	return strings.HasPrefix(tag, langRange+"-")
}
