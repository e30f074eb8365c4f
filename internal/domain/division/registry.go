package division

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmptyRegistry  = errors.New("division registry is empty")
	ErrDuplicateLabel = errors.New("duplicate division label")
)

var divisionValidator = validator.New()

// Registry is the fixed, ordered set of divisions. Insertion order is the
// display order of every aggregation.
type Registry struct {
	divisions []Division
}

func NewRegistry(divisions []Division) (*Registry, error) {
	if len(divisions) == 0 {
		return nil, ErrEmptyRegistry
	}

	out := make([]Division, 0, len(divisions))
	seen := make(map[string]struct{}, len(divisions))
	for i, item := range divisions {
		item.Label = strings.TrimSpace(item.Label)
		item.HubID = strings.TrimSpace(item.HubID)
		if err := divisionValidator.Struct(item); err != nil {
			return nil, fmt.Errorf("division #%d: %w", i+1, err)
		}
		if _, exists := seen[item.Label]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, item.Label)
		}
		seen[item.Label] = struct{}{}
		out = append(out, item)
	}

	return &Registry{divisions: out}, nil
}

// All returns the divisions in registry order. The slice is a copy.
func (r *Registry) All() []Division {
	if r == nil {
		return nil
	}
	out := make([]Division, len(r.divisions))
	copy(out, r.divisions)
	return out
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.divisions)
}
