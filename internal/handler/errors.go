package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/bluetrail/internal/domain"
)

// Error codes returned in ErrorDetail.Code.
const (
	codeValidation      = "validation_error"
	codeAmbiguous       = "ambiguous_trail_endpoints"
	codeNotDeterminable = "trail_not_determinable"
	codeUnavailable     = "snapshot_unavailable"
	codeRequestTooLarge = "request_too_large"
	codeInternal        = "internal_error"
)

// messages holds the localised text for codes whose message does not come
// from the error itself.
var messages = map[string]map[string]string{
	codeAmbiguous: {
		"hu": "A túramozgalom kezdő- vagy végpontja megváltozott a pecsételések időszakában.",
		"en": "The trail's start or end checkpoint changed within the stamping period.",
	},
	codeNotDeterminable: {
		"hu": "A túramozgalom útvonala nem határozható meg.",
		"en": "The trail route cannot be determined.",
	},
	codeUnavailable: {
		"hu": "A referenciaadatok még nem töltődtek be, próbálja újra később.",
		"en": "Reference data is not loaded yet, try again later.",
	},
	codeRequestTooLarge: {
		"hu": "A kérés túl nagy.",
		"en": "The request body is too large.",
	},
	codeInternal: {
		"hu": "Belső hiba történt.",
		"en": "An internal error occurred.",
	},
}

func localized(code, lang string) string {
	m := messages[code]
	if msg, ok := m[lang]; ok {
		return msg
	}
	return m["hu"]
}

// errorBody returns an ErrorResponse with a localised message.
func errorBody(code, lang string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: localized(code, lang)}}
}

// validationBody returns an ErrorResponse for a domain validation failure.
// The message is extracted from the wrapped error.
func validationBody(err error) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: codeValidation, Message: unwrapMessage(err)}}
}

// requestBody returns an ErrorResponse for a bad request rejected before
// reaching the service layer (e.g. missing or malformed body).
func requestBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: codeValidation, Message: message}}
}

// certifyError maps a Certify error to a status and body. ok is false for
// errors that are server failures.
func certifyError(err error, lang string) (status int, body ErrorResponse, ok bool) {
	switch {
	case errors.Is(err, domain.ErrUnknownTrail), errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, validationBody(err), true
	case errors.Is(err, domain.ErrAmbiguousTrailEndpoints):
		return http.StatusUnprocessableEntity, errorBody(codeAmbiguous, lang), true
	case errors.Is(err, domain.ErrNoPathFound), errors.Is(err, domain.ErrNotFound):
		return http.StatusUnprocessableEntity, errorBody(codeNotDeterminable, lang), true
	case errors.Is(err, domain.ErrSnapshotUnavailable):
		return http.StatusServiceUnavailable, errorBody(codeUnavailable, lang), true
	}
	return http.StatusInternalServerError, errorBody(codeInternal, lang), false
}

// fieldErrors renders validator errors as "field: rule" pairs.
func fieldErrors(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fe.Field()+": "+rule)
	}
	return strings.Join(parts, "; ")
}

// unwrapMessage extracts the human-readable part from a wrapped error.
// e.g. "service.CertificationService.Certify: unknown trail program: \"XYZ\"" → "unknown trail program: \"XYZ\""
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, prefix := range []string{
		"service.CertificationService.Certify: ",
		"validation error: ",
	} {
		msg = strings.TrimPrefix(msg, prefix)
	}
	return msg
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
