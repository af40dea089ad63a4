package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/moneyball/internal/input"
	"github.com/yourusername/moneyball/internal/models"
)

const maxBodyBytes = 1 << 20

// errorResponse is the body of every non-2xx reply
type errorResponse struct {
	Error  string             `json:"error"`
	Fields []*input.FieldError `json:"fields,omitempty"`
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondErr maps service errors onto status codes.
func respondErr(w http.ResponseWriter, logger *logrus.Logger, err error) {
	var ve input.ValidationErrors
	switch {
	case errors.As(err, &ve):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid input", Fields: ve})
	case errors.Is(err, models.ErrSessionNotFound),
		errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrUnknownSport):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrSessionLimit):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, models.ErrInsufficientLegs),
		errors.Is(err, models.ErrMalformedInput),
		errors.Is(err, models.ErrDomainViolation):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrInvalidID):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		logger.WithError(err).Error("Unhandled request error")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeForm reads a flat JSON object into raw form fields. Numbers and
// booleans are kept in their text form so the input boundary parses them.
// An empty body is an empty form.
func decodeForm(r *http.Request) (input.Form, error) {
	form := input.Form{}
	if r.Body == nil {
		return form, nil
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return form, nil
		}
		return nil, fmt.Errorf("request body is not a JSON object: %v: %w", err, models.ErrMalformedInput)
	}

	var errs input.ValidationErrors
	for field, v := range raw {
		switch val := v.(type) {
		case nil:
		case string:
			form[field] = val
		case json.Number:
			form[field] = val.String()
		case bool:
			form[field] = strconv.FormatBool(val)
		default:
			errs = append(errs, &input.FieldError{Field: field, Kind: input.KindMalformed, Message: "must be a string or number"})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return form, nil
}
