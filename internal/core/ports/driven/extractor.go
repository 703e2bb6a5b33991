package driven

import "github.com/custodia-labs/mailfts/internal/core/domain"

// FragmentExtractor turns a raw message into the ordered fragment stream the
// projector consumes. Extraction never fails: an unparseable message yields
// whatever fragments could be recovered (at minimum its keywords).
type FragmentExtractor interface {
	// Extract classifies the message text into fragments, in a definite
	// order.
	Extract(msg domain.RawMessage) []domain.Fragment
}
