package common

import "regexp"

// MatchRegex compiles and matches a case-insensitive pattern against a string.
// It returns an error if the pattern is invalid.
func MatchRegex(pattern, text string) (bool, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(text), nil
}
