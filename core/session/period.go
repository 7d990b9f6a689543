package session

import (
	"time"

	"golang.org/x/text/language"
)

// PeriodLabeler derives the period tag of a session from its calendar day.
// The tag groups sessions for optional per-period caps.
type PeriodLabeler func(time.Time) string

// DefaultPeriodLabeler tags sessions with the English month name.
var DefaultPeriodLabeler = MonthLabeler(language.English)

// supportedLocales lists the locales a month table exists for. The first
// entry is the fallback.
var supportedLocales = []language.Tag{
	language.English,
	language.BrazilianPortuguese,
}

var monthTables = map[language.Tag][12]string{
	language.BrazilianPortuguese: {
		"janeiro", "fevereiro", "março", "abril", "maio", "junho",
		"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
	},
}

// MonthLabeler returns a PeriodLabeler producing month names in the closest
// supported locale. Unsupported locales fall back to English rather than
// depending on host configuration.
func MonthLabeler(tag language.Tag) PeriodLabeler {
	matcher := language.NewMatcher(supportedLocales)
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		idx = 0
	}
	table, ok := monthTables[supportedLocales[idx]]
	if !ok {
		return func(t time.Time) string { return t.Month().String() }
	}
	return func(t time.Time) string { return table[int(t.Month())-1] }
}
