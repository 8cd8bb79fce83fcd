package notes

import "strings"

// CanonicalKey converts camelCase and PascalCase keys to snake_case.
//
// Two passes run over the key. The first inserts '_' before an ASCII
// uppercase letter followed by a run of lowercase letters, when some other
// character (not a line break) precedes it. The second inserts '_' between a
// lowercase letter or digit and a following uppercase letter. The result is
// lowercased. Keys already in snake_case are returned unchanged.
//
//	topicBreakdown -> topic_breakdown
//	KeyVocabulary  -> key_vocabulary
//	HTMLParser     -> html_parser
func CanonicalKey(s string) string {
	return strings.ToLower(splitLowerRuns(splitWordStarts([]rune(s))))
}

// splitWordStarts is the first pass: X + Upper + lower+ -> X_Upperlower+.
func splitWordStarts(r []rune) []rune {
	out := make([]rune, 0, len(r)+4)
	for i := 0; i < len(r); {
		if r[i] != '\n' && i+2 < len(r) && isUpper(r[i+1]) && isLower(r[i+2]) {
			j := i + 2
			for j < len(r) && isLower(r[j]) {
				j++
			}
			out = append(out, r[i], '_')
			out = append(out, r[i+1:j]...)
			i = j
			continue
		}
		out = append(out, r[i])
		i++
	}
	return out
}

// splitLowerRuns is the second pass: lower|digit + Upper -> lower|digit_Upper.
func splitLowerRuns(r []rune) string {
	var b strings.Builder
	b.Grow(len(r) + 4)
	for i := 0; i < len(r); {
		if (isLower(r[i]) || isDigit(r[i])) && i+1 < len(r) && isUpper(r[i+1]) {
			b.WriteRune(r[i])
			b.WriteByte('_')
			b.WriteRune(r[i+1])
			i += 2
			continue
		}
		b.WriteRune(r[i])
		i++
	}
	return b.String()
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }
