// Package instruction extracts the recipient and message body from a
// free-text send instruction such as
//
//	email to bob@example.com saying 'lunch at noon'
//
// The extraction is keyword based. A missing keyword is not an
// error: the corresponding field is reported as absent.
package instruction

import "strings"

const (
	recipientKeyword = " to "
	bodyKeyword      = "saying"
)

// Instruction is the raw natural-language command.
type Instruction string

// Join rebuilds an instruction from command-line words.
func Join(words []string) Instruction {
	return Instruction(strings.Join(words, " "))
}

// String returns the raw instruction text.
func (i Instruction) String() string {
	return string(i)
}

// Fields holds the values extracted from an instruction.
type Fields struct {
	// Recipient is the first token after " to ", unvalidated.
	Recipient    string
	HasRecipient bool

	// Body is the text after "saying" with one layer of quotes removed.
	// It may be present and empty.
	Body    string
	HasBody bool
}

// Extract pulls the recipient and body out of an instruction.
func Extract(instruction Instruction) Fields {
	text := string(instruction)
	var f Fields

	if _, after, found := strings.Cut(text, recipientKeyword); found {
		if tokens := strings.Fields(after); len(tokens) > 0 {
			f.Recipient = tokens[0]
			f.HasRecipient = true
		}
	}

	if _, after, found := strings.Cut(text, bodyKeyword); found {
		f.Body = unquote(strings.TrimSpace(after))
		f.HasBody = true
	}

	return f
}

// unquote strips exactly one matching pair of straight quotes.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '\'' || first == '"') {
		return s[1 : len(s)-1]
	}
	return s
}
