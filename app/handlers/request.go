package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/helpers"
	"github.com/unrolled/render"
)

const maxUploadSize = 10 << 20

type messageResponse struct {
	Message string `json:"message"`
}

func writeError(rd *render.Render, w http.ResponseWriter, r *http.Request, err error) {
	status, body := helpers.NewErrorBody(r, err)
	if err := rd.JSON(w, status, body); err != nil {
		log.Printf("writeError: failed to render error response: %v", err)
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return apperrors.InvalidArgument("request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.InvalidArgument("request body is required")
		}
		return apperrors.InvalidArgument("malformed JSON body: %v", err)
	}
	return nil
}

// uploadedCSV returns the "file" part of a multipart upload, or the raw body
// when the request is not multipart.
func uploadedCSV(w http.ResponseWriter, r *http.Request) (io.ReadCloser, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.Body, nil
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, apperrors.InvalidArgument("invalid multipart upload: %v", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, apperrors.InvalidArgument("form field \"file\" is required")
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		file.Close()
		return nil, apperrors.InvalidArgument("only .csv files are accepted")
	}
	return file, nil
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidArgument("%s must be an integer", key)
	}
	return n, nil
}
