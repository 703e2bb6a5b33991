package domain

// FieldKind classifies the semantic role of a text fragment.
type FieldKind uint8

const (
	// FieldHeader is a message header value; the header name travels with the fragment.
	FieldHeader FieldKind = iota
	// FieldBody is inline message body text.
	FieldBody
	// FieldAttachment is text extracted from an attachment (content or filename).
	FieldAttachment
	// FieldKeyword is a message keyword or flag.
	FieldKeyword
)

// String returns the field kind name for diagnostics.
func (k FieldKind) String() string {
	switch k {
	case FieldHeader:
		return "header"
	case FieldBody:
		return "body"
	case FieldAttachment:
		return "attachment"
	case FieldKeyword:
		return "keyword"
	default:
		return "unknown"
	}
}

// Fragment is a single piece of extracted text plus its field classification.
// Fragments are produced by the message extraction layer and consumed exactly
// once when a Document is built.
type Fragment struct {
	// Kind is the semantic role of the text.
	Kind FieldKind

	// Header is the original header name, set only when Kind is FieldHeader.
	// The name is preserved verbatim; consumers differentiate headers by
	// exact name.
	Header string

	// Text is the fragment content.
	Text string
}

// HeaderFragment builds a header fragment with the name kept verbatim.
func HeaderFragment(name, text string) Fragment {
	return Fragment{Kind: FieldHeader, Header: name, Text: text}
}

// BodyFragment builds a body text fragment.
func BodyFragment(text string) Fragment {
	return Fragment{Kind: FieldBody, Text: text}
}

// AttachmentFragment builds an attachment text fragment.
func AttachmentFragment(text string) Fragment {
	return Fragment{Kind: FieldAttachment, Text: text}
}

// KeywordFragment builds a keyword fragment.
func KeywordFragment(text string) Fragment {
	return Fragment{Kind: FieldKeyword, Text: text}
}
