package httpkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"capstone_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

const msgInvalidBody = "invalid request body"

// BindStrict decodes a JSON body into dst, rejecting unknown fields, wrong
// primitive types, trailing data and an empty body. Missing fields are left to
// the validator.
func BindStrict(c *gin.Context, dst interface{}) error {
	if c.Request.Body == nil {
		return apperr.Validation("request body is required")
	}

	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperr.Validation(msgInvalidBody).WithDetails("body must contain a single JSON object")
	}
	return nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case errors.Is(err, io.EOF):
		return apperr.Validation("request body is required")
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			return apperr.Validation(msgInvalidBody).WithDetails("body must be a JSON object")
		}
		return apperr.Validation(msgInvalidBody).
			WithDetails(fmt.Sprintf("field %q must be of type %s", field, typeErr.Type.String()))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperr.Validation(msgInvalidBody).WithDetails("malformed JSON")
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return apperr.Validation(msgInvalidBody).WithDetails(fmt.Sprintf("unknown field %s", field))
	default:
		return apperr.Validation(msgInvalidBody).WithDetails(err.Error())
	}
}
