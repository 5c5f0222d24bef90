package aggregate

import (
	"errors"
	"fmt"

	"github.com/okian/pldash/internal/domain/model"
)

// Sentinel kinds for aggregation errors.
var (
	ErrTeamNotInView = errors.New("team not in view")
)

// EmptySelectionError is returned by BuildView when no rows remain. It wraps
// model.ErrEmptySelection and keeps the selected teams the join dropped.
type EmptySelectionError struct {
	Season     string
	Reason     string
	Mismatches []Mismatch
}

func (e *EmptySelectionError) Error() string {
	return fmt.Sprintf("build view %s: %s: %v", e.Season, e.Reason, model.ErrEmptySelection)
}

func (e *EmptySelectionError) Unwrap() error { return model.ErrEmptySelection }

// DroppedTeams returns the mismatches carried by an empty selection error in
// err's chain, or nil.
func DroppedTeams(err error) []Mismatch {
	var empty *EmptySelectionError
	if errors.As(err, &empty) {
		return empty.Mismatches
	}
	return nil
}
