package tenant

import (
	"errors"

	"github.com/google/uuid"
)

// notFoundSentinel marks a cached negative slug lookup. The slug key space
// otherwise holds tenant UUIDs, which can never collide with this value.
const notFoundSentinel = "NF"

const (
	existsTrue  = "true"
	existsFalse = "false"
)

var errCorruptEntry = errors.New("corrupt cache entry")

// slugOutcome is the decoded value of a slug cache entry: either a tenant ID
// or a recorded absence.
type slugOutcome struct {
	ID    uuid.UUID
	Found bool
}

func encodeSlugOutcome(o slugOutcome) string {
	if !o.Found {
		return notFoundSentinel
	}
	return o.ID.String()
}

func decodeSlugOutcome(raw string) (slugOutcome, error) {
	if raw == notFoundSentinel {
		return slugOutcome{}, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return slugOutcome{}, errCorruptEntry
	}
	return slugOutcome{ID: id, Found: true}, nil
}

func encodeExistence(exists bool) string {
	if exists {
		return existsTrue
	}
	return existsFalse
}

func decodeExistence(raw string) (bool, error) {
	switch raw {
	case existsTrue:
		return true, nil
	case existsFalse:
		return false, nil
	default:
		return false, errCorruptEntry
	}
}
