// Package subject derives an email subject line from a message body.
//
// The Resolver first asks a text-generation provider for a subject. When
// that is unavailable or fails it walks a fixed ladder of textual
// heuristics (first sentence, first paragraph or line, first words), so a
// non-empty subject is always produced.
package subject

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/entrhq/mailpilot/pkg/llm"
	"github.com/entrhq/mailpilot/pkg/logging"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// Placeholder is returned when the body has nothing to summarise.
	Placeholder = "(No subject)"

	// MaxLength caps generated subjects and paragraph/line fallbacks.
	MaxLength = 80

	fallbackWords = 8

	defaultTimeout = 15 * time.Second

	promptTemplate = "act as a text extractor and return a concise email subject (max 80 characters)" +
		" from the following email body. Return only the subject line, no extra text.\n\n" +
		"Email:\n%s"
)

// Whitespace here matches strings.Fields: ASCII space, Unicode separators
// and NEL.
var firstSentence = regexp.MustCompile(`(?s)^[\s\p{Z}\x{85}]*(.*?)[.!?](?:[\s\p{Z}\x{85}]|$)`)

var spaceRun = regexp.MustCompile(`[ \t]{2,}`)

// Stage names the ladder step that produced a subject.
type Stage string

const (
	StageGenerated     Stage = "generated"
	StagePlaceholder   Stage = "placeholder"
	StageFirstSentence Stage = "first_sentence"
	StageParagraph     Stage = "paragraph"
	StageLine          Stage = "line"
	StageWords         Stage = "words"
)

// AttemptKind classifies the outcome of the generation stage.
type AttemptKind int

const (
	// AttemptUnavailable means no provider is configured.
	AttemptUnavailable AttemptKind = iota
	// AttemptSucceeded means the provider returned a usable subject.
	AttemptSucceeded
	// AttemptEmpty means the provider answered with no usable text.
	AttemptEmpty
	// AttemptFailed means the call itself failed.
	AttemptFailed
)

func (k AttemptKind) String() string {
	switch k {
	case AttemptUnavailable:
		return "unavailable"
	case AttemptSucceeded:
		return "succeeded"
	case AttemptEmpty:
		return "empty"
	case AttemptFailed:
		return "failed"
	default:
		return fmt.Sprintf("AttemptKind(%d)", int(k))
	}
}

// Attempt is the typed result of the generation stage.
type Attempt struct {
	Kind    AttemptKind
	Subject string
	Err     error
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	Subject string
	Stage   Stage
	Attempt Attempt
}

// Resolver produces subjects. It is safe for concurrent use.
type Resolver struct {
	provider llm.Provider
	timeout  time.Duration
	logger   *logging.Logger
	policy   *bluemonday.Policy
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout bounds the generation call.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger used for generation warnings.
func WithLogger(l *logging.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a Resolver. provider may be nil, in which case only
// the textual ladder is used.
func NewResolver(provider llm.Provider, opts ...Option) *Resolver {
	r := &Resolver{
		provider: provider,
		timeout:  defaultTimeout,
		logger:   logging.Discard(),
		policy:   bluemonday.StrictPolicy(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns a non-empty subject for body. It never fails.
func (r *Resolver) Resolve(ctx context.Context, body string) Resolution {
	attempt := r.generate(ctx, body)

	switch attempt.Kind {
	case AttemptSucceeded:
		return Resolution{Subject: attempt.Subject, Stage: StageGenerated, Attempt: attempt}
	case AttemptFailed:
		r.logger.Warnf("subject generation failed: %v", attempt.Err)
	case AttemptEmpty:
		r.logger.Debugf("subject generation returned no text")
	case AttemptUnavailable:
		r.logger.Debugf("subject generation unavailable")
	}

	subject, stage := Fallback(body)
	return Resolution{Subject: subject, Stage: stage, Attempt: attempt}
}

func (r *Resolver) generate(ctx context.Context, body string) Attempt {
	if r.provider == nil {
		return Attempt{Kind: AttemptUnavailable}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	reply, err := r.provider.Complete(ctx, []*llm.Message{
		llm.NewUserMessage(fmt.Sprintf(promptTemplate, body)),
	})
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return Attempt{Kind: AttemptUnavailable, Err: err}
	case errors.Is(err, llm.ErrEmptyResponse):
		return Attempt{Kind: AttemptEmpty, Err: err}
	case err != nil:
		return Attempt{Kind: AttemptFailed, Err: err}
	case reply == nil:
		return Attempt{Kind: AttemptEmpty}
	}

	subject := r.clean(reply.Content)
	if subject == "" {
		return Attempt{Kind: AttemptEmpty}
	}
	return Attempt{Kind: AttemptSucceeded, Subject: subject}
}

// clean keeps the first non-blank line, removes one layer of surrounding
// quotes and applies the length cap. Markup is stripped only when the reply
// contains real HTML elements; other angle-bracket text is kept.
func (r *Resolver) clean(text string) string {
	if hasMarkup(text) {
		text = html.UnescapeString(r.policy.Sanitize(text))
		text = spaceRun.ReplaceAllString(text, " ")
	}

	line := ""
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}

	line = strings.TrimSpace(stripQuotes(line))
	return truncate(line, MaxLength)
}

// Fallback runs the textual ladder used when generation is unavailable.
func Fallback(body string) (string, Stage) {
	if body == "" {
		return Placeholder, StagePlaceholder
	}

	if m := firstSentence.FindStringSubmatch(strings.TrimSpace(body)); m != nil {
		if s := strings.TrimSpace(m[1]); s != "" {
			return s, StageFirstSentence
		}
	}

	for _, sep := range []struct {
		sep   string
		stage Stage
	}{
		{"\n\n", StageParagraph},
		{"\n", StageLine},
	} {
		if !strings.Contains(body, sep.sep) {
			continue
		}
		first, _, _ := strings.Cut(body, sep.sep)
		if first = strings.TrimSpace(first); first != "" {
			return strings.TrimSpace(truncate(first, MaxLength)), sep.stage
		}
	}

	words := strings.Fields(body)
	if len(words) == 0 {
		return Placeholder, StagePlaceholder
	}
	if len(words) > fallbackWords {
		words = words[:fallbackWords]
	}
	return strings.Join(words, " "), StageWords
}

// hasMarkup reports whether s contains a tag whose name and attribute keys
// are all known HTML names, so "<b>" counts and "<b and c>" does not.
func hasMarkup(s string) bool {
	if !strings.Contains(s, "<") {
		return false
	}
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			if isElement(z) {
				return true
			}
		}
	}
}

func isElement(z *html.Tokenizer) bool {
	name, more := z.TagName()
	if atom.Lookup(name) == 0 {
		return false
	}
	for more {
		var key []byte
		key, _, more = z.TagAttr()
		if atom.Lookup(key) == 0 {
			return false
		}
	}
	return true
}

func stripQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '\'' || first == '"') {
		return s[1 : len(s)-1]
	}
	return s
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
