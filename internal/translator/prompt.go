package translator

import "strings"

// DefaultPromptTemplate holds the translation rules sent as the system
// instruction. {source} and {target} are replaced by language names.
const DefaultPromptTemplate = `Follow these translation rules strictly:
1. Translate only the {source} text into {target}.
2. Keep every sequence number exactly as given.
3. Preserve all special symbols and formatting.
4. Reply only in this format, one entry per input entry, entries separated by a blank line:
[index]
<translation>`

const unknownSource = "foreign-language"

// SystemPrompt expands the placeholders in template. An empty template
// selects DefaultPromptTemplate; an empty source name becomes a generic
// description and an empty target leaves the placeholder text "English".
func SystemPrompt(template, source, target string) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultPromptTemplate
	}
	if strings.TrimSpace(source) == "" {
		source = unknownSource
	}
	if strings.TrimSpace(target) == "" {
		target = "English"
	}
	r := strings.NewReplacer("{source}", source, "{target}", target)
	return r.Replace(template)
}
