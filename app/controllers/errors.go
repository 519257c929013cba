// Package controllers translates HTTP requests into service calls and
// service results into the response envelope.
package controllers

import (
	"errors"
	"net/http"

	"github.com/ibrahimdesign/atelier/app/services"
	"github.com/ibrahimdesign/atelier/pkg/logger"
	"github.com/ibrahimdesign/atelier/pkg/response"
)

// respondErr maps the service error taxonomy onto the envelope. Everything
// unrecognized is a 500 with a generic message; the cause goes to the log,
// never to the client.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		response.ValidationFailed(w, ve.Fields)
		return
	}

	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		response.Unauthorized(w)
	case errors.Is(err, services.ErrForbidden):
		response.Forbidden(w, "You do not have permission to perform this action")
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(w)
	default:
		logger.WithCtx(r.Context()).Error("request failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Something went wrong")
	}
}
