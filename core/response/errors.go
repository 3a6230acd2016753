package response

import "errors"

// ErrMalformedResponse reports a completion that carried no usable text:
// no choices, null content, or structured (non-string) content.
var ErrMalformedResponse = errors.New("malformed response")
