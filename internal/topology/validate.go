package topology

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vanshika/campusmap/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and rejects duplicate building ids or
// room tags. Walkways that name unknown buildings are not an error; the
// graph builder skips them.
func Validate(c domain.Campus) error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidTopology, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidTopology, err)
	}

	seen := make(map[string]struct{}, len(c.Buildings))
	for _, b := range c.Buildings {
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("%w: duplicate building id %q", ErrInvalidTopology, b.ID)
		}
		seen[b.ID] = struct{}{}
	}

	tags := make(map[string]struct{}, len(c.Rooms))
	for _, r := range c.Rooms {
		if _, dup := tags[r.Tag]; dup {
			return fmt.Errorf("%w: duplicate room tag %q", ErrInvalidTopology, r.Tag)
		}
		tags[r.Tag] = struct{}{}
	}
	return nil
}
