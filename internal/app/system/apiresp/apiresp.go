// Package apiresp writes the JSON envelope shared by every API endpoint:
//
//	{ "success": true, "statusCode": 200, "message": "...", "pagination": {...}, "data": ... }
//
// Errors use the same shape with success=false. Server errors also carry
// an errorId that matches the logged entry.
package apiresp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apierr"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxBodyBytes caps decoded request bodies.
const MaxBodyBytes = 1 << 20

// Envelope is the response body for every endpoint.
type Envelope struct {
	Success    bool                     `json:"success"`
	StatusCode int                      `json:"statusCode"`
	Message    string                   `json:"message"`
	Pagination *querybuilder.Pagination `json:"pagination,omitempty"`
	Data       any                      `json:"data,omitempty"`
	ErrorID    string                   `json:"errorId,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a 200 envelope.
func OK(w http.ResponseWriter, message string, data any) {
	Send(w, http.StatusOK, message, data)
}

// Created writes a 201 envelope.
func Created(w http.ResponseWriter, message string, data any) {
	Send(w, http.StatusCreated, message, data)
}

// Send writes a success envelope with an explicit status.
func Send(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{
		Success:    true,
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

// Page writes a 200 envelope with pagination metadata.
func Page(w http.ResponseWriter, message string, data any, pg querybuilder.Pagination) {
	JSON(w, http.StatusOK, Envelope{
		Success:    true,
		StatusCode: http.StatusOK,
		Message:    message,
		Pagination: &pg,
		Data:       data,
	})
}

// Fail writes an error envelope without logging.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{StatusCode: status, Message: message})
}

// Error maps err to an envelope and logs it once. *apierr.Error values keep
// their status and message; anything else becomes an opaque 500 whose
// errorId is also logged.
func Error(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	if log == nil {
		log = zap.NewNop()
	}
	fields := []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		fields = append(fields, zap.String("request_id", reqID))
	}

	if ae, ok := apierr.As(err); ok && ae.Status < http.StatusInternalServerError {
		log.Debug("request rejected", append(fields, zap.Int("status", ae.Status))...)
		Fail(w, ae.Status, ae.Message)
		return
	}

	status := http.StatusInternalServerError
	message := "Something went wrong"
	if ae, ok := apierr.As(err); ok {
		status = ae.Status
		message = ae.Message
	}
	id := uuid.NewString()
	log.Error("request failed", append(fields, zap.String("error_id", id), zap.Int("status", status))...)
	JSON(w, status, Envelope{StatusCode: status, Message: message, ErrorID: id})
}

// Decode reads a JSON request body into dst. Malformed or oversized
// bodies yield a 400 *apierr.Error.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apierr.BadRequest("Request body is required")
		case errors.As(err, &mbe):
			return apierr.BadRequest("Request body is too large")
		default:
			return apierr.Wrap(http.StatusBadRequest, "Invalid JSON body", err)
		}
	}
	return nil
}
