package pipeline

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrType reports an argument of the wrong shape, such as a nil or malformed table.
	ErrType = errors.New("pipeline: invalid argument type")
	// ErrValue reports a semantically invalid argument or data state.
	ErrValue = errors.New("pipeline: invalid argument value")
)

// MissingValuesError is returned by Process when feature columns still hold
// missing values after imputation and row removal was not requested.
type MissingValuesError struct {
	Columns []string
}

func (e *MissingValuesError) Error() string {
	return fmt.Sprintf("missing values in columns [%s]: remove them manually, impute numeric features or enable row removal",
		strings.Join(e.Columns, ", "))
}

// Is makes MissingValuesError match ErrValue.
func (e *MissingValuesError) Is(target error) bool { return target == ErrValue }
