package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/dmitrijs2005/piiquante/internal/common"
	"github.com/dmitrijs2005/piiquante/internal/server/assets"
)

const maxJSONBody = 1 << 20

// decodeJSON reads a JSON body into dst and validates it.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return common.NewValidationError("body", "must be a valid JSON object")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return common.NewValidationError("body", "must contain a single JSON object")
	}
	return s.validator.Validate(dst)
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// decodeSauceForm reads the multipart form used to create or update a sauce:
// a "sauce" field holding the JSON fields and an "image" file part. A nil
// image is returned when the part is absent and not required.
func (s *Server) decodeSauceForm(w http.ResponseWriter, r *http.Request, imageRequired bool) (*sauceRequest, *assets.Image, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadSize)
	if err := r.ParseMultipartForm(s.config.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, common.NewValidationError("image", fmt.Sprintf("must not exceed %d bytes", s.config.MaxUploadSize))
		}
		return nil, nil, common.NewValidationError("body", "must be a multipart form")
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var req sauceRequest
	if err := json.Unmarshal([]byte(r.FormValue("sauce")), &req); err != nil {
		return nil, nil, common.NewValidationError("sauce", "must be a valid JSON object")
	}
	if err := s.validator.Validate(&req); err != nil {
		return nil, nil, err
	}

	file, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		if imageRequired {
			return nil, nil, common.NewValidationError("image", "is required")
		}
		return &req, nil, nil
	}
	if err != nil {
		return nil, nil, common.NewValidationError("image", "could not be read")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, fmt.Errorf("read image: %w", err)
	}
	img, err := assets.Inspect(data)
	if err != nil {
		return nil, nil, err
	}
	return &req, img, nil
}
