package handlers

import (
	"net/http"

	"github.com/inkwise/tutorgate/pkg/gateway/apierror"
)

type NotFoundHandler struct{}

func (h NotFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, apierror.Envelope{OK: false, Error: "not found"})
}
