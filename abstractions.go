package typedjson

import "github.com/viant/tagly/format/text"

// caseFormatName renders a field name in the configured output case format.
func caseFormatName(caseFormat text.CaseFormat, fieldName string) string {
	if caseFormat == "" {
		return fieldName
	}
	if fieldName == "ID" {
		switch caseFormat {
		case text.CaseFormatLower, text.CaseFormatLowerCamel, text.CaseFormatLowerUnderscore:
			return "id"
		}
	}
	src := text.DetectCaseFormat(fieldName)
	if !src.IsDefined() {
		src = text.CaseFormatUpperCamel
	}
	return src.Format(fieldName, caseFormat)
}
