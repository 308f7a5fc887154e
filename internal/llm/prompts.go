package llm

import (
	_ "embed"
	"strings"
)

//go:embed prompts/cover_letter_v1.txt
var coverLetterPromptV1 string

// BuildPrompt renders the cover letter instruction block. CV text and job
// description are embedded verbatim; the surrounding instructions are fixed so
// the prompt is deterministic for a given input.
func BuildPrompt(input GenerateInput) string {
	input = input.Normalize()
	replacer := strings.NewReplacer(
		"{{CV_TEXT}}", input.CVText,
		"{{JOB_DESCRIPTION}}", input.JobDescription,
		"{{JOB_TITLE}}", input.JobTitle,
		"{{COMPANY_NAME}}", input.CompanyName,
	)
	return replacer.Replace(coverLetterPromptV1)
}
