package aicheck

import "errors"

// ErrQuotaExceeded indicates the vision provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("vision quota exceeded")
