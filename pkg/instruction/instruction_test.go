package instruction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name         string
		instruction  string
		recipient    string
		hasRecipient bool
		body         string
		hasBody      bool
	}{
		{
			name:         "single quoted body",
			instruction:  "email to bob@example.com saying 'lunch at noon'",
			recipient:    "bob@example.com",
			hasRecipient: true,
			body:         "lunch at noon",
			hasBody:      true,
		},
		{
			name:         "double quoted body",
			instruction:  `send to alice@x.com saying "hello there"`,
			recipient:    "alice@x.com",
			hasRecipient: true,
			body:         "hello there",
			hasBody:      true,
		},
		{
			name:         "unquoted body is trimmed",
			instruction:  "email to alice@x.com saying   hello there  ",
			recipient:    "alice@x.com",
			hasRecipient: true,
			body:         "hello there",
			hasBody:      true,
		},
		{
			name:         "trailing punctuation kept on recipient",
			instruction:  "write to carol@example.org, saying hi",
			recipient:    "carol@example.org,",
			hasRecipient: true,
			body:         "hi",
			hasBody:      true,
		},
		{
			name:        "no recipient keyword",
			instruction: "email bob saying hi",
			body:        "hi",
			hasBody:     true,
		},
		{
			name:         "no body keyword",
			instruction:  "email to bob@example.com",
			recipient:    "bob@example.com",
			hasRecipient: true,
		},
		{
			name:        "nothing after to",
			instruction: "email to ",
		},
		{
			name:         "present but empty body",
			instruction:  "email to bob@example.com saying",
			recipient:    "bob@example.com",
			hasRecipient: true,
			body:         "",
			hasBody:      true,
		},
		{
			name:         "nested quotes preserved",
			instruction:  `email to bob@example.com saying "'quoted' inside"`,
			recipient:    "bob@example.com",
			hasRecipient: true,
			body:         "'quoted' inside",
			hasBody:      true,
		},
		{
			name:         "only one layer removed",
			instruction:  `email to bob@example.com saying ""twice""`,
			recipient:    "bob@example.com",
			hasRecipient: true,
			body:         `"twice"`,
			hasBody:      true,
		},
		{
			name:         "mismatched quotes left alone",
			instruction:  `email to bob@example.com saying 'mixed"`,
			recipient:    "bob@example.com",
			hasRecipient: true,
			body:         `'mixed"`,
			hasBody:      true,
		},
		{
			name:         "lone quote left alone",
			instruction:  `email to bob@example.com saying '`,
			recipient:    "bob@example.com",
			hasRecipient: true,
			body:         "'",
			hasBody:      true,
		},
		{
			name:         "first to wins",
			instruction:  "go to town and email to bob@example.com saying hi",
			recipient:    "town",
			hasRecipient: true,
			body:         "hi",
			hasBody:      true,
		},
		{
			name:         "saying matched inside a word",
			instruction:  "email to bob@example.com soothsaying future",
			recipient:    "bob@example.com",
			hasRecipient: true,
			body:         "future",
			hasBody:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(Instruction(tt.instruction))
			assert.Equal(t, tt.hasRecipient, got.HasRecipient)
			assert.Equal(t, tt.recipient, got.Recipient)
			assert.Equal(t, tt.hasBody, got.HasBody)
			assert.Equal(t, tt.body, got.Body)
		})
	}
}

func TestExtract_RecipientVerbatim(t *testing.T) {
	for _, addr := range []string{"x@y.z", "x@y.z.", "<x@y.z>", "not-an-address!"} {
		got := Extract(Instruction("mail to " + addr + " saying hi"))
		assert.True(t, got.HasRecipient)
		assert.Equal(t, addr, got.Recipient)
	}
}

func TestJoin(t *testing.T) {
	in := Join([]string{"email", "to", "bob@example.com", "saying", "hi"})
	assert.Equal(t, "email to bob@example.com saying hi", in.String())
}
