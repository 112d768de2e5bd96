package execution

import (
	"github.com/Bab4nI/Jaba/internal/config"
)

// ResolveLanguage maps a public language name plus optional interpreter
// variant onto the judge's numeric language id. An empty or unknown variant
// falls back to the language's declared default.
func ResolveLanguage(
	languages map[string]config.Language,
	languageID string,
	interpreter string,
) (int, error) {
	lang, ok := languages[languageID]
	if !ok {
		return 0, ValidationError{Field: "language_id", Reason: "unsupported language"}
	}

	variant := interpreter
	if variant == "" {
		variant = lang.Default
	}

	id, ok := lang.Variants[variant]
	if !ok {
		id, ok = lang.Variants[lang.Default]
		if !ok {
			return 0, ValidationError{
				Field:  "interpreter",
				Reason: "unsupported interpreter and no default variant",
			}
		}
	}

	return id, nil
}
