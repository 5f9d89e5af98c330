package schema

import "strings"

// ParseTags converts comma-separated free text into an ordered list of
// trimmed, non-empty tokens. Duplicates are kept.
//
// Both the select-option editor of the schema authoring form and the
// multi-valued product attribute editor go through this function.
func ParseTags(input string) []string {
	tags := []string{}
	for _, token := range strings.Split(input, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		tags = append(tags, token)
	}
	return tags
}

// JoinTags is the display form of a tag list used to prefill editors.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// OptionsFromTags builds select options whose label equals their value.
func OptionsFromTags(tags []string) []Option {
	options := make([]Option, 0, len(tags))
	for _, t := range tags {
		options = append(options, Option{Value: t, Label: t})
	}
	return options
}
