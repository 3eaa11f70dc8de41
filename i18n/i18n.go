// Package i18n resolves message keys to localized text.
// Polish and English catalogs are embedded; the language of a request is
// negotiated from an explicit tag or an Accept-Language header.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localesFS embed.FS

// Bundle holds the catalogs of all supported languages. It is read-only
// after NewBundle and safe for concurrent use.
type Bundle struct {
	catalogs    map[string]map[string]string
	tags        []language.Tag
	matcher     language.Matcher
	defaultLang string
}

// NewBundle loads the embedded catalogs. defaultLang is placed first so the
// matcher falls back to it; an unsupported default falls back to Polish.
func NewBundle(defaultLang string) (*Bundle, error) {
	b := &Bundle{catalogs: make(map[string]map[string]string)}

	entries, err := localesFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("i18n: failed to read catalogs: %w", err)
	}
	for _, entry := range entries {
		lang := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
		data, err := localesFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("i18n: failed to read catalog %s: %w", lang, err)
		}
		if err := b.LoadMessages(lang, data); err != nil {
			return nil, err
		}
	}

	if _, ok := b.catalogs[defaultLang]; !ok {
		defaultLang = "pl"
	}
	b.defaultLang = defaultLang

	b.tags = []language.Tag{language.Make(defaultLang)}
	for lang := range b.catalogs {
		if lang != defaultLang {
			b.tags = append(b.tags, language.Make(lang))
		}
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

// LoadMessages parses a flat {"key": "text"} JSON catalog for lang.
func (b *Bundle) LoadMessages(lang string, data []byte) error {
	var messages map[string]string
	if err := json.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("i18n: failed to parse catalog %s: %w", lang, err)
	}
	b.catalogs[lang] = messages
	return nil
}

func (b *Bundle) DefaultLang() string {
	return b.defaultLang
}

// Match picks the supported language for an explicit tag (may be empty)
// and an Accept-Language header value (may be empty).
func (b *Bundle) Match(explicit, acceptLanguage string) string {
	if explicit != "" {
		if _, ok := b.catalogs[explicit]; ok {
			return explicit
		}
		if tag, err := language.Parse(explicit); err == nil {
			if lang, ok := b.match(tag); ok {
				return lang
			}
		}
	}
	if acceptLanguage == "" {
		return b.defaultLang
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return b.defaultLang
	}
	if lang, ok := b.match(tags...); ok {
		return lang
	}
	return b.defaultLang
}

func (b *Bundle) match(tags ...language.Tag) (string, bool) {
	_, index, confidence := b.matcher.Match(tags...)
	if confidence == language.No {
		return "", false
	}
	base, _ := b.tags[index].Base()
	return base.String(), true
}

// T returns the text of key in lang, formatted with args.
// Unknown keys fall back to the default language, then to the key itself.
func (b *Bundle) T(lang, key string, args ...any) string {
	msg, ok := b.catalogs[lang][key]
	if !ok {
		msg, ok = b.catalogs[b.defaultLang][key]
	}
	if !ok {
		msg = key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
