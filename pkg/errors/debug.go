package errors

import (
	"errors"
	"fmt"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	UpstreamStatus int    `json:"upstream_status,omitempty"`
	UpstreamDetail string `json:"upstream_detail,omitempty"`
}

// upstreamError is implemented by errors originating from the
// quotation backend HTTP client.
type upstreamError interface {
	error
	StatusCode() int
	UpstreamDetail() string
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var upErr upstreamError
	if errors.As(err, &upErr) {
		d.UpstreamStatus = upErr.StatusCode()
		d.UpstreamDetail = upErr.UpstreamDetail()
	}

	return d
}
