// Package agent holds the two pipeline stages.
//
// The stages differ in how they fail. SearchStage.Run returns an error and
// the caller decides whether to continue. AnalysisStage.Run has no error
// return: a failed model call becomes a fixed fallback text.
package agent

import "unicode/utf8"

// truncate returns at most n characters of s, counted in runes.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
