package intent

import "strings"

// Language is a supported translation target.
type Language struct {
	Name string
	Code string
}

// Languages lists the supported translation targets.
var Languages = []Language{
	{Name: "hindi", Code: "hi"},
	{Name: "tamil", Code: "ta"},
	{Name: "kannada", Code: "kn"},
	{Name: "french", Code: "fr"},
	{Name: "spanish", Code: "es"},
	{Name: "german", Code: "de"},
	{Name: "japanese", Code: "ja"},
}

// LanguageCode returns the two-letter code for a language name.
func LanguageCode(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, l := range Languages {
		if l.Name == name {
			return l.Code, true
		}
	}
	return "", false
}
