package llm

import (
	"fmt"
	"regexp"
	"strings"
)

// preambleRe matches a leading "Tags:"-style label the model sometimes adds.
var preambleRe = regexp.MustCompile(`(?i)^\s*(?:here (?:are|is) [^:\n]*|tags|keywords|description|summary)\s*:\s*`)

// listMarkerRe matches bullet or numbered list prefixes.
var listMarkerRe = regexp.MustCompile(`^\s*(?:[-*•]+|\d+[.)])\s*`)

func buildTagsPrompt(url, content string) string {
	return fmt.Sprintf(`Generate 5-8 relevant tags for the following web page.

URL: %s

%s

Instructions:
- Return ONLY the tags as a single comma-separated list
- Keep tags short, lowercase, one to three words each
- No numbering, no hashtags, no explanation`, url, content)
}

func buildDescriptionPrompt(url, content string) string {
	return fmt.Sprintf(`Write a description of the following web page.

URL: %s

%s

Instructions:
- 100-150 words of plain prose
- Describe what the page is about and why someone would bookmark it
- Return ONLY the description, no heading or preamble`, url, content)
}

// cleanReply trims whitespace, surrounding quotes and a leading label.
func cleanReply(s string) string {
	s = trimQuotes(strings.TrimSpace(s))
	s = preambleRe.ReplaceAllString(s, "")
	return trimQuotes(strings.TrimSpace(s))
}

func trimQuotes(s string) string {
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'' || first == '`') && first == last {
			s = strings.TrimSpace(s[1 : len(s)-1])
			continue
		}
		break
	}
	return s
}

// cleanTags normalizes a tag reply into "a, b, c": lowercased, list markers
// stripped, duplicates dropped.
func cleanTags(reply string) string {
	reply = cleanReply(reply)
	fields := strings.FieldsFunc(reply, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	seen := make(map[string]bool)
	tags := make([]string, 0, len(fields))
	for _, f := range fields {
		tag := listMarkerRe.ReplaceAllString(f, "")
		tag = strings.TrimLeft(strings.TrimSpace(tag), "#")
		tag = strings.ToLower(trimQuotes(strings.TrimSpace(tag)))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return strings.Join(tags, ", ")
}
