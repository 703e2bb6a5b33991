package cli

import (
	"fmt"
	"strconv"

	"github.com/custodia-labs/mailfts/internal/core/domain"
)

// parseAccountID parses a numeric account id argument.
func parseAccountID(arg string) (uint32, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid account id %q: %w", arg, domain.ErrInvalidInput)
	}
	return uint32(id), nil
}

// parseDocumentIDs parses numeric document id arguments.
func parseDocumentIDs(args []string) (domain.IDList, error) {
	ids := make(domain.IDList, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid document id %q: %w", arg, domain.ErrInvalidInput)
		}
		ids = append(ids, uint32(id))
	}
	return ids, nil
}
