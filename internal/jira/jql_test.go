package jira

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteJQL(t *testing.T) {
	cases := map[string]string{
		"OPS":         `"OPS"`,
		"In Progress": `"In Progress"`,
		`Say "hi"`:    `"Say \"hi\""`,
		`back\slash`:  `"back\\slash"`,
		`both \"`:     `"both \\\""`,
		"":            `""`,
	}
	for in, want := range cases {
		assert.Equal(t, want, QuoteJQL(in), "input %q", in)
	}
}

func TestIssueCountJQL(t *testing.T) {
	assert.Equal(t, `project = "OPS" AND status = "In Progress"`, IssueCountJQL("OPS", "In Progress"))
}

func TestEndpointStringHidesPassword(t *testing.T) {
	e := Endpoint{URL: "https://jira.example.com", Username: "bot", Password: "secret"}
	assert.NotContains(t, e.String(), "secret")
	assert.Equal(t, "bot@https://jira.example.com", e.String())
	assert.Equal(t, "https://jira.example.com", Endpoint{URL: "https://jira.example.com"}.String())
}
