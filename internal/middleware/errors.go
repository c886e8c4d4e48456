package middleware

import "errors"

var ErrBodyTooLarge = errors.New("request body too large")
