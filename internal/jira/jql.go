package jira

import "strings"

var jqlEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// QuoteJQL renders s as a double-quoted JQL string literal.
func QuoteJQL(s string) string {
	return `"` + jqlEscaper.Replace(s) + `"`
}

// IssueCountJQL builds the filter selecting the issues of one project in one status.
func IssueCountJQL(projectKey, status string) string {
	return "project = " + QuoteJQL(projectKey) + " AND status = " + QuoteJQL(status)
}
