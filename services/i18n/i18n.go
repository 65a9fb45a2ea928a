// Package i18nsvc translates user-facing messages. Locale files are embedded.
package i18nsvc

import (
	"context"
	"embed"
	"encoding/json"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	mu            sync.RWMutex
	bundle        *i18n.Bundle
	matcher       language.Matcher
	defaultLocale = "en"
)

type ctxKey struct{}

// Init loads every embedded locale file and sets the default locale.
func Init(defLocale string) error {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return errors.Wrap(err, "reading locales")
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return errors.Wrapf(err, "reading %s", e.Name())
		}
		if _, err := b.ParseMessageFileBytes(data, e.Name()); err != nil {
			return errors.Wrapf(err, "parsing %s", e.Name())
		}
	}

	mu.Lock()
	defer mu.Unlock()
	bundle = b
	matcher = language.NewMatcher(b.LanguageTags())
	if defLocale != "" {
		defaultLocale = defLocale
	}
	return nil
}

// Locales lists the loaded languages.
func Locales() []string {
	mu.RLock()
	defer mu.RUnlock()
	if bundle == nil {
		return nil
	}
	tags := bundle.LanguageTags()
	locales := make([]string, 0, len(tags))
	for _, t := range tags {
		locales = append(locales, t.String())
	}
	return locales
}

// Supported reports whether locale was loaded.
func Supported(locale string) bool {
	for _, l := range Locales() {
		if l == locale {
			return true
		}
	}
	return false
}

// Match picks the best loaded locale for an Accept-Language header value.
func Match(acceptLanguage string) string {
	mu.RLock()
	defer mu.RUnlock()
	if matcher == nil || acceptLanguage == "" {
		return defaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return defaultLocale
	}
	tag, _, conf := matcher.Match(tags...)
	if conf == language.No {
		return defaultLocale
	}
	base, _ := tag.Base()
	return base.String()
}

// WithLocale returns a new context carrying the given locale (e.g. "ta", "en").
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKey{}, locale)
}

// LocaleFromContext returns the context locale, or the default one.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	mu.RLock()
	defer mu.RUnlock()
	return defaultLocale
}

// T translates a message ID using the locale from the context.
// The message ID itself is returned when it has no translation.
func T(ctx context.Context, messageID string, templateData ...map[string]interface{}) string {
	return Translate(LocaleFromContext(ctx), messageID, templateData...)
}

func Translate(locale, messageID string, templateData ...map[string]interface{}) string {
	mu.RLock()
	b := bundle
	mu.RUnlock()
	if b == nil {
		return messageID
	}

	cfg := &i18n.LocalizeConfig{MessageID: messageID}
	if len(templateData) > 0 && templateData[0] != nil {
		cfg.TemplateData = templateData[0]
	}
	msg, err := i18n.NewLocalizer(b, locale).Localize(cfg)
	if err != nil {
		return messageID
	}
	return msg
}
