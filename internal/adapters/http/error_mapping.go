package httpadapter

import (
	"net/http"

	"github.com/mkrasnov/asop-compliance-service/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrProvider):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUploadNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrExtraction):
		return http.StatusInternalServerError
	case domain.IsKind(err, domain.ErrTransport):
		return http.StatusInternalServerError
	case domain.IsKind(err, domain.ErrPersistence):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
