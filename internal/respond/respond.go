// backend/internal/respond/respond.go

// Package respond writes the JSON envelope every handler answers with.
package respond

import (
	"encoding/json"
	"log"
	"net/http"

	"elearn-quiz/internal/apperr"
)

type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func JSON(w http.ResponseWriter, status int, success bool, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Envelope{Success: success, Message: message, Data: data}); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

// Status maps an error kind to its HTTP status. Ownership and not-found
// share 404.
func Status(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindOwnership, apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func Error(w http.ResponseWriter, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		log.Printf("Request failed: %v", err)
	}
	JSON(w, status, false, apperr.Message(err), nil)
}
