package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// cedulaRegex matches the document numbers the public lookup accepts:
// digits only, between 5 and 12 characters.
var cedulaRegex = regexp.MustCompile(`^[0-9]{5,12}$`)

func init() {
	validate.RegisterValidation("cedula", func(fl validator.FieldLevel) bool {
		return cedulaRegex.MatchString(fl.Field().String())
	})
}

func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

// RequireInt64ID parses a numeric path parameter.
func RequireInt64ID(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("missing required ID")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q", s)
	}
	return id, nil
}

// ValidCedula reports whether a raw string is an acceptable public document
// number.
func ValidCedula(s string) bool {
	return cedulaRegex.MatchString(s)
}
