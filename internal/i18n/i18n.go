package i18n

import (
	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
)

const contextKey = "locale"

// Localizer resolves the request locale and serves translated messages.
// The first configured locale is the default.
type Localizer struct {
	codes   []string
	matcher language.Matcher
}

func New(locales []string) *Localizer {
	if len(locales) == 0 {
		locales = []string{"en"}
	}
	tags := make([]language.Tag, 0, len(locales))
	codes := make([]string, 0, len(locales))
	for _, code := range locales {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		codes = append(codes, code)
	}
	if len(tags) == 0 {
		tags = []language.Tag{language.English}
		codes = []string{"en"}
	}
	return &Localizer{codes: codes, matcher: language.NewMatcher(tags)}
}

// Match picks the best supported locale, preferring the explicit lang value
// over the Accept-Language header.
func (l *Localizer) Match(lang, acceptHeader string) string {
	var prefs []language.Tag
	if lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			prefs = append(prefs, tag)
		}
	}
	if acceptHeader != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptHeader); err == nil {
			prefs = append(prefs, tags...)
		}
	}
	_, idx, _ := l.matcher.Match(prefs...)
	return l.codes[idx]
}

func (l *Localizer) T(locale, key string) string {
	if m, ok := catalog[locale]; ok {
		if msg, ok := m[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog["en"][key]; ok {
		return msg
	}
	return key
}

// Middleware stores the negotiated locale in the echo context.
func (l *Localizer) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			locale := l.Match(c.QueryParam("lang"), c.Request().Header.Get("Accept-Language"))
			c.Set(contextKey, locale)
			return next(c)
		}
	}
}

// Locale reads the locale set by Middleware, defaulting to the first
// configured one when the middleware did not run.
func (l *Localizer) Locale(c echo.Context) string {
	if v, ok := c.Get(contextKey).(string); ok && v != "" {
		return v
	}
	return l.codes[0]
}

// Tr is the common shortcut: translate key for this request.
func (l *Localizer) Tr(c echo.Context, key string) string {
	return l.T(l.Locale(c), key)
}
