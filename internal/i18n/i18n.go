package i18n

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Language is a supported display language code
type Language string

const (
	English   Language = "en"
	Malayalam Language = "ml"
)

// Supported lists the display languages in toggle order
var Supported = []Language{English, Malayalam}

// Next returns the other supported language
func (l Language) Next() Language {
	if l == English {
		return Malayalam
	}
	return English
}

// Name is the language's own name, used as the label of its toggle button
func (l Language) Name() string {
	switch l {
	case Malayalam:
		return "മലയാളം"
	default:
		return "English"
	}
}

// Parse normalizes a language code such as "en-US" or "ML"
func Parse(code string) (Language, error) {
	c := strings.TrimSpace(strings.ToLower(code))
	if idx := strings.IndexAny(c, "-_,;"); idx >= 0 {
		c = c[:idx]
	}
	for _, l := range Supported {
		if Language(c) == l {
			return l, nil
		}
	}
	return "", fmt.Errorf("unsupported language %q (supported: en, ml)", code)
}

//go:embed locales/*.yaml
var localeFS embed.FS

// Translator resolves translation keys for the current display language
type Translator struct {
	mu      sync.RWMutex
	lang    Language
	bundles map[Language]map[string]string
}

// New loads the embedded bundles and starts in lang
func New(lang Language) (*Translator, error) {
	bundles := make(map[Language]map[string]string, len(Supported))
	for _, l := range Supported {
		data, err := localeFS.ReadFile("locales/" + string(l) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("failed to read %s bundle: %w", l, err)
		}
		bundle := make(map[string]string)
		if err := yaml.Unmarshal(data, &bundle); err != nil {
			return nil, fmt.Errorf("failed to parse %s bundle: %w", l, err)
		}
		bundles[l] = bundle
	}

	if _, ok := bundles[lang]; !ok {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}

	return &Translator{lang: lang, bundles: bundles}, nil
}

// MustNew is New for the embedded bundles, which are known to parse
func MustNew(lang Language) *Translator {
	t, err := New(lang)
	if err != nil {
		panic(err)
	}
	return t
}

// Language returns the current display language
func (t *Translator) Language() Language {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lang
}

// ChangeLanguage switches the display language
func (t *Translator) ChangeLanguage(code string) error {
	lang, err := Parse(code)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.lang = lang
	t.mu.Unlock()
	return nil
}

// T returns the translation for key. Missing keys fall back to English
// and then to the key itself.
func (t *Translator) T(key string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if v, ok := t.bundles[t.lang][key]; ok && v != "" {
		return v
	}
	if v, ok := t.bundles[English][key]; ok && v != "" {
		return v
	}
	return key
}

// ToggleLabel is the label of the button that switches to the other language
func (t *Translator) ToggleLabel() string {
	return t.Language().Next().Name()
}
