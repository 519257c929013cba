// Package response writes the storefront's JSON envelope. Every payload is
// {"success": true, ...} and every failure is {"success": false, "message"}
// with the status code carrying the error class.
package response

import (
	"encoding/json"
	"net/http"
)

type envelope map[string]interface{}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Data sends a 200 with a single named payload: {"success":true,"<key>":v}.
func Data(w http.ResponseWriter, key string, v interface{}) {
	write(w, http.StatusOK, envelope{"success": true, key: v})
}

// Created sends a 201 with a single named payload.
func Created(w http.ResponseWriter, key string, v interface{}) {
	write(w, http.StatusCreated, envelope{"success": true, key: v})
}

// List sends a catalog page: {"success":true,"products":[...],"meta":{...}}.
func List(w http.ResponseWriter, products interface{}, meta interface{}) {
	write(w, http.StatusOK, envelope{"success": true, "products": products, "meta": meta})
}

// Message sends a 200 with a human-readable confirmation.
func Message(w http.ResponseWriter, msg string) {
	write(w, http.StatusOK, envelope{"success": true, "message": msg})
}

// Error sends a failure envelope with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	write(w, status, envelope{"success": false, "message": msg})
}

// ValidationFailed sends a 400 with field-level messages.
func ValidationFailed(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusBadRequest, envelope{
		"success": false,
		"message": "Validation failed",
		"errors":  errs,
	})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Forbidden"
	}
	Error(w, http.StatusForbidden, msg)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}
