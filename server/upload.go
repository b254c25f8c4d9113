package server

import (
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"net/http"
	"socialite/media"
	"socialite/metrics"
)

// multipart framing allowance on top of the image itself
const multipartOverhead = 1 << 20

type uploadResponse struct {
	Success bool `json:"success"`
	*media.Image
	Message string `json:"message"`
}

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxImageSize+multipartOverhead)
	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, http.StatusBadRequest, "Image must be 5MB or smaller")
			return
		}
		writeMessage(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if s.images == nil {
		writeError(w, r, errors.New("image host is not configured"))
		return
	}
	img, err := s.images.Upload(r.Context(), header.Filename, file)
	switch {
	case errors.Is(err, media.ErrNotImage):
		writeMessage(w, http.StatusBadRequest, "Only image files are allowed")
		return
	case errors.Is(err, media.ErrTooLarge):
		writeMessage(w, http.StatusBadRequest, "Image must be 5MB or smaller")
		return
	case err != nil:
		requestLogger(r).WithError(err).Error("image upload failed")
		writeMessage(w, http.StatusInternalServerError, "Error uploading image")
		return
	}
	metrics.RecordEvent(metrics.EventImageUploaded)
	writeJSON(w, http.StatusOK, uploadResponse{Success: true, Image: img, Message: "Image uploaded successfully"})
}

func (s *Server) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	err := errors.New("image host is not configured")
	if s.images != nil {
		err = s.images.Delete(r.Context(), mux.Vars(r)["publicId"])
	}
	if err != nil {
		requestLogger(r).WithError(err).Warn("image delete failed")
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": "Failed to delete image"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Image deleted successfully"})
}
