package staging

import "strings"

// CountOccurrences counts non-overlapping, left-to-right occurrences of
// needle in haystack. After a match, the scan resumes immediately past it, so
// CountOccurrences("aaaa", "aa") is 2. An empty needle yields 0.
func CountOccurrences(haystack, needle string) int {
	if needle == "" {
		return 0
	}
	return strings.Count(haystack, needle)
}

// validateUnique checks that target occurs exactly once in content. It is the
// gate every stage call passes before an operation is recorded.
func validateUnique(path, content, target string) error {
	if target == "" {
		return ErrEmptyTarget
	}
	switch n := CountOccurrences(content, target); {
	case n == 0:
		return &TargetNotFoundError{Path: path, Target: target}
	case n > 1:
		return &AmbiguousTargetError{Path: path, Target: target, Count: n}
	}
	return nil
}
