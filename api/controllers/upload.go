package controllers

import (
	"mime/multipart"
	"net/http"

	pkgerrors "github.com/lumenline/quotedesk/pkg/errors"
)

// openUpload parses the multipart form and returns the named file. The
// caller owns closing the returned file.
func openUpload(r *http.Request, field string, maxMB int) (multipart.File, *multipart.FileHeader, error) {
	limit := int64(maxMB) << 20
	r.Body = http.MaxBytesReader(nil, r.Body, limit+1024)
	if err := r.ParseMultipartForm(limit); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart upload")
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "missing uploaded file").WithDetails(map[string]any{"field": field})
	}
	return file, header, nil
}
