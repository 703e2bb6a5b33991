// Package extract turns raw RFC 822 messages into the classified fragment
// stream the document projector consumes.
package extract

import (
	"bytes"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/emersion/go-message/mail"

	"github.com/custodia-labs/mailfts/internal/core/domain"
	"github.com/custodia-labs/mailfts/internal/core/ports/driven"
	"github.com/custodia-labs/mailfts/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.FragmentExtractor = (*Extractor)(nil)

// indexedHeaders are the headers projected into the index, in emission order.
// Names are kept verbatim; removal and querying depend on exact names.
var indexedHeaders = []string{"From", "To", "Cc", "Bcc", "Subject"}

// Extractor parses MIME messages with go-message. It never fails: a message
// that cannot be parsed is indexed as a single body fragment of its raw text,
// plus its keywords.
type Extractor struct{}

// New creates a new message extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract classifies the message text into fragments: selected headers, inline
// text parts as body, attachment names and textual attachment content, and
// message flags as keywords.
func (e *Extractor) Extract(msg domain.RawMessage) []domain.Fragment {
	fragments := e.extractContent(msg)

	for _, flag := range msg.Flags {
		if kw := normaliseFlag(flag); kw != "" {
			fragments = append(fragments, domain.KeywordFragment(kw))
		}
	}

	return fragments
}

// extractContent emits header and body/attachment fragments.
func (e *Extractor) extractContent(msg domain.RawMessage) []domain.Fragment {
	var fragments []domain.Fragment

	mr, err := mail.CreateReader(bytes.NewReader(msg.Raw))
	if err != nil {
		logger.Debug("extract: unparseable message uid %d, indexing raw text: %v", msg.UID, err)
		if text := strings.TrimSpace(string(msg.Raw)); text != "" {
			fragments = append(fragments, domain.BodyFragment(text))
		}
		return fragments
	}
	defer func() { _ = mr.Close() }()

	for _, name := range indexedHeaders {
		value, err := mr.Header.Text(name)
		if err != nil || value == "" {
			// Fall back to the raw value when decoding fails; an
			// undecodable header is still searchable text.
			value = mr.Header.Get(name)
		}
		if value != "" {
			fragments = append(fragments, domain.HeaderFragment(name, value))
		}
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Debug("extract: stopping at broken part in uid %d: %v", msg.UID, err)
			break
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			body, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}
			if text := inlineText(contentType, body); text != "" {
				fragments = append(fragments, domain.BodyFragment(text))
			}

		case *mail.AttachmentHeader:
			filename, _ := h.Filename()
			if filename != "" {
				fragments = append(fragments, domain.AttachmentFragment(filename))
			}

			contentType, _, _ := h.ContentType()
			if !strings.HasPrefix(contentType, "text/") {
				continue
			}
			body, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}
			if text := inlineText(contentType, body); text != "" {
				fragments = append(fragments, domain.AttachmentFragment(text))
			}
		}
	}

	return fragments
}

// inlineText converts one text part into indexable text.
func inlineText(contentType string, body []byte) string {
	text := string(body)
	if strings.HasPrefix(contentType, "text/html") {
		text = stripHTML(text)
	}
	return strings.TrimSpace(text)
}

// normaliseFlag maps an IMAP flag or keyword to an index keyword: the
// backslash of system flags is dropped and the name lowercased.
func normaliseFlag(flag string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(flag), "\\"))
}

// Pre-compiled regular expressions for HTML stripping.
var (
	scriptTag    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	headTag      = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)
	allTags      = regexp.MustCompile(`<[^>]+>`)
	multiSpaces  = regexp.MustCompile(`[ \t]+`)
)

// stripHTML removes markup from an HTML body, keeping the readable text.
func stripHTML(content string) string {
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, " ")
	content = allTags.ReplaceAllString(content, " ")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")
	return strings.TrimSpace(content)
}
