package server

import (
	"encoding/json"
	"io"
	"net/http"
	"socialite/log"
	"socialite/service"
)

// maxBodySize bounds JSON request bodies
const maxBodySize = 1 << 20

type message struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, message{Message: msg})
}

// writeError maps a service error to its status code. Unclassified errors are logged
// with their cause and reported as a bare server error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch service.KindOf(err) {
	case service.KindValidation:
		status = http.StatusBadRequest
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindForbidden:
		status = http.StatusForbidden
	case service.KindUnauthorized:
		status = http.StatusUnauthorized
	default:
		requestLogger(r).WithError(err).Errorf("%s %s failed", r.Method, r.URL.Path)
	}
	writeMessage(w, status, service.MessageOf(err))
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(dst)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		log.Logger().WithError(err).Debug("malformed request body")
		return service.Validation("Invalid request body")
	}
	return nil
}
