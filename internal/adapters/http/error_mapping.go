package httpadapter

import (
	"errors"
	"net/http"

	"github.com/kochimetro/docflow/internal/core/domain"
)

var (
	errDocumentIDRequired = errors.New("document id is required")
	errDocumentNotFound   = errors.New("document not found")
)

// errorResponse is the wire shape for every failure. The code mirrors the
// failure reason stored on a failed upload record, so clients see the same
// taxonomy on the response and on a later GET.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), errorResponse{
		Error: err.Error(),
		Code:  errorCode(err),
	})
}

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrRecordNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrUnsupportedFileKind):
		return http.StatusUnsupportedMediaType
	case domain.IsKind(err, domain.ErrNoExtractableText):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrAnalysisFailed):
		return http.StatusBadGateway
	case domain.IsKind(err, domain.ErrExtractionTimeout),
		domain.IsKind(err, domain.ErrModelTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return "InvalidInput"
	case domain.IsKind(err, domain.ErrRecordNotFound):
		return "RecordNotFound"
	default:
		return domain.FailureReason(err)
	}
}
