package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// maxBodyBytes bounds request bodies; an invitation batch is far smaller.
const maxBodyBytes = 1 << 20

// Validator is implemented by request DTOs. An empty result means the DTO is valid.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate strictly decodes the body into dest and runs dest's Validate when it
// has one. On failure it has already written a 400 and returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	v, ok := dest.(Validator)
	if !ok {
		return true
	}
	if problems := v.Validate(); len(problems) > 0 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(problems, "; "))
		return false
	}
	return true
}
