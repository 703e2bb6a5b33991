package domain

// Collection is the category of a mail object, deciding which backend index
// its document belongs to. The set of collections is closed: unknown values
// are rejected at the boundary rather than carried as opaque integers.
type Collection uint8

const (
	// CollectionEmail holds message documents.
	CollectionEmail Collection = iota
	// CollectionContact holds contact documents.
	CollectionContact
	// CollectionCalendar holds calendar event documents.
	CollectionCalendar
)

// indexNames maps each collection to its backend index. The table is fixed at
// startup and never mutated, so unsynchronised concurrent reads are safe.
var indexNames = [...]string{
	CollectionEmail:    "fts-email",
	CollectionContact:  "fts-contact",
	CollectionCalendar: "fts-calendar",
}

// Valid reports whether the collection is one of the known values.
func (c Collection) Valid() bool {
	return int(c) < len(indexNames)
}

// IndexName returns the backend index for the collection, or an empty string
// for an unknown value. Callers validate with Valid or ParseCollection first.
func (c Collection) IndexName() string {
	if !c.Valid() {
		return ""
	}
	return indexNames[c]
}

// String returns the collection name for display and configuration.
func (c Collection) String() string {
	switch c {
	case CollectionEmail:
		return "email"
	case CollectionContact:
		return "contact"
	case CollectionCalendar:
		return "calendar"
	default:
		return "unknown"
	}
}

// ParseCollection resolves a collection name from configuration or CLI input.
// Unknown names yield ErrUnknownCollection.
func ParseCollection(name string) (Collection, error) {
	switch name {
	case "email":
		return CollectionEmail, nil
	case "contact":
		return CollectionContact, nil
	case "calendar":
		return CollectionCalendar, nil
	default:
		return 0, ErrUnknownCollection
	}
}

// AllIndexNames returns the backend index for every known collection, in
// collection order. Account-wide removal spans all of them.
func AllIndexNames() []string {
	names := make([]string, len(indexNames))
	copy(names, indexNames[:])
	return names
}
