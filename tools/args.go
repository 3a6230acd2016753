package tools

import (
	"encoding/json"
	"fmt"
)

// DecodeArgs unmarshals tool arguments into T. Empty arguments decode to the
// zero value.
func DecodeArgs[T any](args json.RawMessage) (T, error) {
	var v T
	if len(args) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(args, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return v, nil
}
