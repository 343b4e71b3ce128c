package handler

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/RocketMenace/Wallet/internal/errors"
)

// Response is the envelope every endpoint answers with: a data payload,
// request metadata and a list of errors that is empty on success.
type Response struct {
	Data   interface{}            `json:"data"`
	Meta   map[string]interface{} `json:"meta"`
	Errors []Error                `json:"errors"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := Response{
		Data:   data,
		Meta:   requestMeta(r),
		Errors: []Error{},
	}
	json.NewEncoder(w).Encode(response)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		appErr = apperrors.NewAppError(apperrors.StorageFailure, "an unexpected error occurred").WithDetails(err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.HTTPStatus())

	response := Response{
		Data: map[string]interface{}{},
		Meta: requestMeta(r),
		Errors: []Error{
			{
				Code:    string(appErr.Code),
				Message: appErr.Message,
				Details: appErr.Details,
			},
		},
	}
	json.NewEncoder(w).Encode(response)
}

func requestMeta(r *http.Request) map[string]interface{} {
	return map[string]interface{}{
		"path":   r.URL.Path,
		"method": r.Method,
	}
}
