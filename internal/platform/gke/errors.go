package gke

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// IsNotFound checks if an error is a GKE API 404.
func IsNotFound(err error) bool {
	return isAPIErrorCode(err, http.StatusNotFound)
}

// IsConflict checks if an error indicates a conflicting operation is in progress.
func IsConflict(err error) bool {
	return isAPIErrorCode(err, http.StatusConflict)
}

// isAPIErrorCode checks if the error is a googleapi error with one of the given HTTP codes.
func isAPIErrorCode(err error, codes ...int) bool {
	if err == nil {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		for _, code := range codes {
			if apiErr.Code == code {
				return true
			}
		}
	}
	return false
}
