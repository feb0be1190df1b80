package answer

import (
	"fmt"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Gate decides whether a question may enter the retrieval pipeline. A refused
// question yields the user-facing rejection text.
type Gate interface {
	Check(text string) (ok bool, rejection string)
}

// LanguageGate rejects questions not written in one of the accepted
// languages. Detection runs over the full language set so that a gate with a
// single accepted language still discriminates.
type LanguageGate struct {
	detector  lingua.LanguageDetector
	accepted  map[lingua.Language]bool
	rejection string
}

// NewLanguageGate builds a gate from ISO 639-1 codes such as "en" or "de".
func NewLanguageGate(codes []string) (*LanguageGate, error) {
	if len(codes) == 0 {
		return nil, fmt.Errorf("answer: no accepted languages configured")
	}

	accepted := make(map[lingua.Language]bool, len(codes))
	var names []string
	for _, code := range codes {
		lang, err := languageForCode(code)
		if err != nil {
			return nil, err
		}
		if !accepted[lang] {
			accepted[lang] = true
			names = append(names, lang.String())
		}
	}

	return &LanguageGate{
		detector:  lingua.NewLanguageDetectorBuilder().FromAllLanguages().Build(),
		accepted:  accepted,
		rejection: fmt.Sprintf("Sorry, I can only answer questions in %s.", joinOr(names)),
	}, nil
}

// Check reports whether the text's detected language is accepted. Text whose
// language cannot be determined is rejected.
func (g *LanguageGate) Check(text string) (bool, string) {
	lang, exists := g.detector.DetectLanguageOf(text)
	if !exists || !g.accepted[lang] {
		return false, g.rejection
	}
	return true, ""
}

func languageForCode(code string) (lingua.Language, error) {
	for _, lang := range lingua.AllLanguages() {
		if strings.EqualFold(lang.IsoCode639_1().String(), code) {
			return lang, nil
		}
	}
	return lingua.Unknown, fmt.Errorf("answer: unsupported language code %q", code)
}

func joinOr(names []string) string {
	switch len(names) {
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
	}
}
