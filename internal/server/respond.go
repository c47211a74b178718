package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

const maxBodyBytes = 1 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error"`
}

// WriteJSON writes data as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// WriteJSONError writes an [ErrorBody] with the given status code.
func WriteJSONError(w http.ResponseWriter, message string, code int) {
	WriteJSON(w, ErrorBody{StatusCode: code, Message: message, Error: http.StatusText(code)}, code)
}

// bodyError is a request body that could not be decoded into the declared schema.
type bodyError struct {
	msg string
}

func (e *bodyError) Error() string { return e.msg }

// decodeBody strictly decodes a JSON request body into dst.
//
// An empty body leaves dst untouched. Unknown fields, wrong types and malformed JSON are reported as a [bodyError]
// whose message names the offending field. Anything after the first JSON value other than whitespace is malformed.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			return &bodyError{msg: "invalid JSON body"}
		}
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return &bodyError{msg: fmt.Sprintf("%s must be a %s", typeErr.Field, kindName(typeErr.Type))}
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		if unquoted, uerr := strconv.Unquote(field); uerr == nil {
			field = unquoted
		}
		return &bodyError{msg: fmt.Sprintf("property %s should not exist", field)}
	case errors.As(err, &maxErr):
		return &bodyError{msg: "request body too large"}
	default:
		return &bodyError{msg: "invalid JSON body"}
	}
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Float32, reflect.Float64:
		return "number"
	default:
		return t.String()
	}
}
