// Package handlers implements the ChemDraw AI HTTP handlers: the stateless
// generation and correction endpoints, the session API, the HTML page and the
// health probes.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
	"github.com/turtacn/ChemDraw-AI/pkg/types/common"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeData wraps data in the success envelope.
func writeData[T any](w http.ResponseWriter, r *http.Request, statusCode int, data T) {
	resp := common.NewSuccessResponse(data)
	resp.RequestID = chimw.GetReqID(r.Context())
	writeJSON(w, statusCode, resp)
}

// writeAppError maps err to its HTTP status and error envelope.  Errors
// without a code are masked as internal errors.
func writeAppError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	detail := &common.ErrorDetail{Code: code.String(), Message: errors.Message(err)}

	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		detail.Detail = ae.Detail
	}
	if code == errors.CodeUnknown {
		status = http.StatusInternalServerError
		detail = &common.ErrorDetail{Code: errors.CodeInternal.String()}
	}
	if detail.Message == "" {
		detail.Message = errors.DefaultMessageForCode(errors.ErrorCode(detail.Code))
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", logging.String("code", detail.Code), logging.Err(err),
			logging.String("request_id", chimw.GetReqID(r.Context())))
	}

	resp := common.NewErrorResponse(detail.Code, detail.Message)
	resp.Error = detail
	resp.RequestID = chimw.GetReqID(r.Context())
	writeJSON(w, status, resp)
}

// decodeJSON decodes the request body into dst.  Unknown fields are
// rejected.
func decodeJSON(r *http.Request, dst interface{}) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return errors.New(errors.ErrCodeBadRequest, "content type must be application/json")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooLarge):
			return errors.Wrap(err, errors.ErrCodeBadRequest, "request body too large")
		case stderrors.Is(err, io.EOF):
			return errors.New(errors.ErrCodeBadRequest, "request body is empty")
		default:
			return errors.Wrap(err, errors.ErrCodeBadRequest, "malformed JSON body").WithDetail(err.Error())
		}
	}
	return nil
}

//Personal.AI order the ending
