// Package chunker splits text into bounded pieces that fit the size limits
// of the remote content safety operations.
package chunker

// Split divides text into ordered, non-overlapping chunks of at most
// maxChars characters, preferring to cut on whitespace. When more than one
// chunk results and the last one is shorter than minChars, the last two
// chunks are merged and re-split as evenly as possible.
//
// Lengths are measured in runes. Concatenating the result always yields text.
func Split(text string, maxChars, minChars int) []string {
	if text == "" {
		return []string{}
	}
	runes := []rune(text)
	if maxChars <= 0 || len(runes) <= maxChars {
		return []string{text}
	}

	var chunks [][]rune
	for pos := 0; pos < len(runes); {
		end := min(len(runes), pos+maxChars)

		if end < len(runes) && !isSpace(runes[end]) {
			for end > pos && !isSpace(runes[end-1]) {
				end--
			}
		}
		// a single word longer than maxChars gets cut
		if end == pos {
			end = min(len(runes), pos+maxChars)
		}

		chunks = append(chunks, runes[pos:end])
		pos = end
	}

	if n := len(chunks); n > 1 && len(chunks[n-1]) < minChars {
		combined := make([]rune, 0, len(chunks[n-2])+len(chunks[n-1]))
		combined = append(combined, chunks[n-2]...)
		combined = append(combined, chunks[n-1]...)

		at := balancedCut(combined)
		chunks[n-2] = combined[:at]
		chunks[n-1] = combined[at:]
	}

	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = string(c)
	}
	return out
}

// balancedCut returns the whitespace index closest to the middle of s,
// searching forward first and then backward. It falls back to the exact
// midpoint when s has no usable whitespace.
func balancedCut(s []rune) int {
	half := len(s) / 2

	at := half
	for at < len(s) && !isSpace(s[at]) {
		at++
	}
	if at == len(s) {
		at = half
		for at > 0 && !isSpace(s[at]) {
			at--
		}
	}
	if at == 0 || at == len(s) {
		at = half
	}
	return at
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t'
}
