package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/dharsanguruparan/SchoolHub/internal/blob"
	"github.com/dharsanguruparan/SchoolHub/internal/model"
	"github.com/dharsanguruparan/SchoolHub/internal/schools"
)

// multipartMemory is how much of a multipart body is held in memory before
// file parts spill to temporary files.
const multipartMemory = 1 << 20

type result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type listResult struct {
	Success bool           `json:"success"`
	Schools []model.School `json:"schools"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondFailure(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		respondFailure(w, http.StatusBadRequest, "expecting multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	in := schools.Input{
		Name:    r.FormValue("name"),
		Address: r.FormValue("address"),
		City:    r.FormValue("city"),
		State:   r.FormValue("state"),
		Contact: r.FormValue("contact"),
		EmailID: r.FormValue("email_id"),
	}
	file, closeFile, err := imagePart(r)
	if err != nil {
		respondFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	defer closeFile()

	if _, err := s.svc.Create(r.Context(), in, file); err != nil {
		s.log.WithError(err).Error("create school failed")
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result{Success: true})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.List(r.Context())
	if err != nil {
		s.log.WithError(err).Error("list schools failed")
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listResult{Success: true, Schools: list})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		respondFailure(w, http.StatusBadRequest, "School id is required")
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondFailure(w, http.StatusBadRequest, "Invalid school id")
		return
	}
	if err := s.svc.Delete(r.Context(), id); err != nil {
		s.log.WithError(err).WithField("id", id).Error("delete school failed")
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result{Success: true, Message: "School deleted successfully"})
}

// imagePart returns the optional "image" file. A form without one yields a
// nil file.
func imagePart(r *http.Request) (*blob.File, func(), error) {
	f, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, fmt.Errorf("read image: %w", err)
	}
	return fileFromPart(f, header), func() { f.Close() }, nil
}

func fileFromPart(f multipart.File, header *multipart.FileHeader) *blob.File {
	return &blob.File{
		Reader:      f,
		Size:        header.Size,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch schools.Classify(err) {
	case schools.KindValidation:
		status = http.StatusBadRequest
	case schools.KindNotFound:
		status = http.StatusNotFound
	}
	respondFailure(w, status, err.Error())
}

func respondFailure(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, result{Success: false, Error: msg})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// headers are already sent, nothing useful can be done with an error here
	_ = json.NewEncoder(w).Encode(payload)
}
