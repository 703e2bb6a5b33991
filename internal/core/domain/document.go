package domain

// HeaderField is a single indexed header entry. A header name may repeat.
type HeaderField struct {
	// Name is the original header name, case and formatting untouched.
	Name string

	// Value is the header text.
	Value string
}

// Document is the backend-facing full-text record for one mail object.
// It belongs to exactly one (account, collection) pair, is built once from a
// fragment stream, and is never mutated after construction. The backend keeps
// its own internal key; AccountID and DocumentID are queryable attributes
// used for later removal, not a primary key.
type Document struct {
	// DocumentID identifies the mail object within an account and collection.
	DocumentID uint32

	// AccountID identifies the owning account.
	AccountID uint32

	// Body holds inline text values in input order.
	Body []string

	// Attachments holds attachment text values in input order.
	Attachments []string

	// Keywords holds message keywords in input order.
	Keywords []string

	// Headers holds {name, value} pairs in input order.
	Headers []HeaderField
}

// BuildDocument folds an ordered fragment stream into a Document carrying the
// given identifiers. Every fragment lands in exactly one field sequence and
// input order is preserved; nothing is deduplicated, sorted or size-limited
// here. The fold is total: it cannot fail for any fragment sequence,
// including an empty one.
func BuildDocument(accountID, documentID uint32, fragments []Fragment) Document {
	doc := Document{
		DocumentID: documentID,
		AccountID:  accountID,
	}

	for _, frag := range fragments {
		switch frag.Kind {
		case FieldHeader:
			doc.Headers = append(doc.Headers, HeaderField{Name: frag.Header, Value: frag.Text})
		case FieldBody:
			doc.Body = append(doc.Body, frag.Text)
		case FieldAttachment:
			doc.Attachments = append(doc.Attachments, frag.Text)
		case FieldKeyword:
			doc.Keywords = append(doc.Keywords, frag.Text)
		}
	}

	return doc
}
