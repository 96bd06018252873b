package api

import (
	"errors"
	"io"
	"net/http"

	"connekt/service"

	oaerrors "github.com/go-openapi/errors"
	"github.com/go-openapi/runtime"
	"github.com/go-openapi/runtime/middleware"
)

var (
	jsonProducer = runtime.JSONProducer()
	jsonConsumer = runtime.JSONConsumer()

	errUnauthenticated = oaerrors.New(http.StatusUnauthorized, "authentication required")
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

var okResponse = SuccessResponse{Success: true}

func respond(status int, payload any) middleware.ResponderFunc {
	return middleware.ResponderFunc(func(w http.ResponseWriter, p runtime.Producer) {
		w.Header().Set("Content-Type", runtime.JSONMime)
		w.WriteHeader(status)
		if payload != nil {
			p.Produce(w, payload)
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	respond(status, payload).WriteResponse(w, jsonProducer)
}

// writeError reports err with the status it carries, or 500.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, service.StatusCode(err), ErrorResponse{Error: err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	if err := jsonConsumer.Consume(r.Body, v); err != nil {
		return service.Invalid("invalid request body")
	}
	return nil
}

// decodeOptionalJSON accepts an empty body and leaves v untouched.
func decodeOptionalJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := jsonConsumer.Consume(r.Body, v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return service.Invalid("invalid request body")
}
