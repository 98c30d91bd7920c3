package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"toy-admin/internal/domain"
)

const maxBodyBytes = 1 << 20

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate returns a domain.ErrInvalidArgument listing the failed fields.
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed '%s'", e.Field(), e.Tag()))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidArgument, strings.Join(msgs, "; "))
}

// decode reads a JSON body into dst and validates it. It writes the error
// response itself and reports whether the handler should continue.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, s.log, fmt.Errorf("%w: invalid request body", domain.ErrInvalidArgument))
		return false
	}
	if err := s.validator.Validate(dst); err != nil {
		writeError(w, r, s.log, err)
		return false
	}
	return true
}
