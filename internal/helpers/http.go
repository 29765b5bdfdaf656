package helpers

import (
	"encoding/json"
	"net/http"

	"github.com/isometry/wp-trigger-app/internal/models"
)

type httpError struct {
	Error string `json:"error"`
}

// RespondHTTP writes response as JSON. When the response carries no body and err is set, the error is
// rendered as {"error": "..."}. A zero status code is written as 200.
func RespondHTTP(response models.Response, err error, rw http.ResponseWriter) {
	var payload any = response.Body
	if payload == nil && err != nil {
		payload = httpError{Error: err.Error()}
	}

	for k, v := range response.Headers {
		rw.Header().Set(k, v)
	}
	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	if payload == nil {
		rw.WriteHeader(statusCode)
		return
	}

	respBody, mErr := json.Marshal(payload)
	if mErr != nil {
		http.Error(rw, mErr.Error(), http.StatusInternalServerError)
		return
	}
	if rw.Header().Get("Content-Type") == "" {
		rw.Header().Set("Content-Type", "application/json")
	}
	rw.WriteHeader(statusCode)
	_, _ = rw.Write(respBody)
}

// EncodeBody renders a response body the way RespondHTTP does, for transports that need a string.
func EncodeBody(response models.Response, err error) string {
	var payload any = response.Body
	if payload == nil && err != nil {
		payload = httpError{Error: err.Error()}
	}
	if payload == nil {
		return ""
	}
	b, mErr := json.Marshal(payload)
	if mErr != nil {
		return ""
	}
	return string(b)
}
