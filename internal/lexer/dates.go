package lexer

import "fmt"

// monthDayYearToISO converts a recognized "Month D, YYYY" triple into an
// "YYYY-MM-DD" string. Returns ok=false for an unrecognized month name,
// which should not happen given dateLineRe only matches known names.
func monthDayYearToISO(month, day, year string) (string, bool) {
	idx := -1
	for i, name := range monthNames {
		if name == month {
			idx = i
			break
		}
	}
	if idx == -1 {
		return "", false
	}
	d := atoiSafe(day)
	if d < 1 || d > 31 {
		return "", false
	}
	return fmt.Sprintf("%s-%02d-%02d", year, idx+1, d), true
}
