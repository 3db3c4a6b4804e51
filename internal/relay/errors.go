package relay

import "errors"

// ErrMalformedBody is reported when the webhook body is not base64. It never
// fails a request; the handler logs it and publishes a null location.
var ErrMalformedBody = errors.New("relay: malformed webhook body")
