package normalize

import "regexp"

var (
	// atcPattern accepts any of the five ATC levels:
	// L, LNN, LNNL, LNNLL, LNNLLNN.
	atcPattern = regexp.MustCompile(`^([A-Z]|[A-Z]\d{2}|[A-Z]\d{2}[A-Z]|[A-Z]\d{2}[A-Z]{2}|[A-Z]\d{2}[A-Z]{2}\d{2})$`)

	nctPattern = regexp.MustCompile(`^NCT\d{8}$`)

	hexEscapePattern = regexp.MustCompile(`\\x[0-9a-fA-F]{2}`)
)

// IsATCCode reports whether s is a WHO ATC code at any hierarchical level.
func IsATCCode(s string) bool {
	return atcPattern.MatchString(s)
}

// IsNCTNumber reports whether s is a ClinicalTrials.gov identifier.
func IsNCTNumber(s string) bool {
	return nctPattern.MatchString(s)
}

// CleanHexSequences removes every literal \xHH sequence left behind by a
// lossy export. The bytes are dropped, not decoded.
func CleanHexSequences(s string) string {
	return hexEscapePattern.ReplaceAllString(s, "")
}
