package resume

import (
	"strings"
	"unicode/utf8"
)

// MaxResumeChars caps how much resume text goes into an interview context.
const MaxResumeChars = 12_000

// ComposeContext turns a parsed resume and an optional job description into the free-form
// context an interview is started with. Resume text beyond MaxResumeChars is cut at a rune
// boundary.
func ComposeContext(resumeText, jobDescription string) string {
	resumeText = truncateRunes(strings.TrimSpace(resumeText), MaxResumeChars)
	jobDescription = strings.TrimSpace(jobDescription)

	var b strings.Builder
	if jobDescription != "" {
		b.WriteString("Job description:\n")
		b.WriteString(jobDescription)
		b.WriteString("\n\n")
	}
	b.WriteString("Candidate resume:\n")
	b.WriteString(resumeText)
	return b.String()
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
