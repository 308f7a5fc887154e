package llm

import (
	"strings"
	"testing"
)

func TestBuildPromptEmbedsInputsVerbatim(t *testing.T) {
	prompt := BuildPrompt(GenerateInput{
		CVText:         "Five years of Go experience.",
		JobDescription: "Backend engineer at Example Corp.",
		JobTitle:       "Backend Engineer",
		CompanyName:    "Example Corp",
	})

	for _, want := range []string{
		"Five years of Go experience.",
		"Backend engineer at Example Corp.",
		"Job Title: Backend Engineer",
		"Company: Example Corp",
		`starting with "Dear Hiring Manager,"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptDefaults(t *testing.T) {
	prompt := BuildPrompt(GenerateInput{
		CVText:         "cv",
		JobDescription: "jd",
	})

	if !strings.Contains(prompt, "Job Title: the position") {
		t.Fatalf("expected default job title, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Company: your company") {
		t.Fatalf("expected default company, got:\n%s", prompt)
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	input := GenerateInput{CVText: "cv", JobDescription: "jd"}
	if BuildPrompt(input) != BuildPrompt(input) {
		t.Fatal("expected identical prompts for identical input")
	}
}
