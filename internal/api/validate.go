package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate runs struct tag validation and flattens the first failure into a readable message.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Errorf("%s is required", lowerFirst(fe.Field()))
		case "min", "gte":
			return fmt.Errorf("%s must be at least %s", lowerFirst(fe.Field()), fe.Param())
		case "max", "lte":
			return fmt.Errorf("%s must be at most %s", lowerFirst(fe.Field()), fe.Param())
		case "oneof":
			return fmt.Errorf("%s must be one of: %s", lowerFirst(fe.Field()), fe.Param())
		default:
			return fmt.Errorf("%s is invalid", lowerFirst(fe.Field()))
		}
	}
	return err
}

// DecodeAndValidate reads a JSON body into dst and validates it, writing a 400 on failure.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return false
	}
	if err := Validate(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return false
	}
	return true
}

// IDParam returns a UUID path parameter, writing a 400 if it is missing or malformed.
func IDParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing "+name)
		return "", false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid "+name)
		return "", false
	}
	return id.String(), true
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
