package aim

import "strings"

// Line prefixes the model is instructed to emit. Matching is case-sensitive
// with no leading-whitespace tolerance; a trailing space after the colon is
// not required.
const (
	headlinePrefix    = "Headline:"
	descriptionPrefix = "Description:"
	keywordsPrefix    = "Keywords:"
)

// ParsedCaption is the structured caption extracted from a model response.
type ParsedCaption struct {
	Headline    string
	Description string
	Keywords    []string
}

// placeholderCaption is substituted when caption generation fails, so that
// the results report still has a row for the image.
func placeholderCaption() ParsedCaption {
	return ParsedCaption{Headline: "N/A", Description: "N/A"}
}

// ParseCaption extracts headline, description and keywords from a raw model
// response. Lines are scanned in order and the first line carrying each
// prefix wins; later duplicates are ignored. ParseCaption never fails: a
// malformed response degrades to zero-valued fields.
func ParseCaption(raw string) ParsedCaption {
	p := ParsedCaption{}
	var gotHeadline, gotDescription, gotKeywords bool

	for _, line := range strings.Split(raw, "\n") {
		switch {
		case !gotHeadline && strings.HasPrefix(line, headlinePrefix):
			p.Headline = stripQuotes(strings.TrimSpace(strings.TrimPrefix(line, headlinePrefix)))
			gotHeadline = true
		case !gotDescription && strings.HasPrefix(line, descriptionPrefix):
			p.Description = stripQuotes(strings.TrimSpace(strings.TrimPrefix(line, descriptionPrefix)))
			gotDescription = true
		case !gotKeywords && strings.HasPrefix(line, keywordsPrefix):
			p.Keywords = extractKeywords(line)
			gotKeywords = true
		}
	}

	return p
}

// extractKeywords splits the remainder of a "Keywords:" line into trimmed,
// unquoted tokens. Empty tokens are dropped.
func extractKeywords(line string) []string {
	rest := strings.TrimSpace(strings.TrimPrefix(line, keywordsPrefix))
	if rest == "" {
		return nil
	}

	var kws []string
	for _, t := range strings.Split(rest, ",") {
		if t = stripQuotes(strings.TrimSpace(t)); t != "" {
			kws = append(kws, t)
		}
	}
	return kws
}

// stripQuotes removes a single pair of enclosing double quotes. Unbalanced
// or interior quotes are left alone.
func stripQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
