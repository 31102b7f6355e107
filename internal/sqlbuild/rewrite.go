package sqlbuild

import "strings"

// rewriteRule maps a portable date expression to its ClickHouse form.
type rewriteRule struct {
	from string
	to   string
}

// rewriteRules are applied in order. Compound expressions come first so
// their inner pieces are not rewritten out from under them, and the bare
// CURRENT_DATE rule comes after every pattern that embeds it.
var rewriteRules = []rewriteRule{
	{"(dateTrunc('month', CURRENT_DATE) - toIntervalMonth(1))", "(toStartOfMonth(today()) - INTERVAL 1 MONTH)"},
	{"(dateTrunc('week', CURRENT_DATE) - toIntervalWeek(1))", "(toMonday(today()) - INTERVAL 1 WEEK)"},
	{"dateTrunc('month', CURRENT_DATE)", "toStartOfMonth(today())"},
	{"dateTrunc('week', CURRENT_DATE)", "toMonday(today())"},
	{"toIntervalMonth(1)", "INTERVAL 1 MONTH"},
	{"toIntervalWeek(1)", "INTERVAL 1 WEEK"},
	{"toIntervalDay(1)", "INTERVAL 1 DAY"},
	{"CURRENT_DATE", "today()"},
	{"NOW()", "now()"},
}

// RewriteForClickHouse converts portable date functions in a raw filter
// condition to their ClickHouse equivalents. This is the only place in the
// builder that knows the target engine.
func RewriteForClickHouse(condition string) string {
	for _, rule := range rewriteRules {
		condition = strings.ReplaceAll(condition, rule.from, rule.to)
	}
	return condition
}
