package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/clicon/internal/common"
)

const (
	statusFail    = "fail"
	statusSuccess = "success"
)

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFail(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, statusResponse{Status: statusFail, Message: msg})
}

func writeSuccess(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, statusResponse{Status: statusSuccess, Message: msg})
}

// errorStatus maps a service error to its HTTP status and the message shown
// to the client. Internal details never reach the body.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorInvalidID):
		return http.StatusBadRequest, "invalid id"
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, "user with this email already exists"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, common.ErrSessionExpired):
		return http.StatusUnauthorized, "session expired, please register again"
	case errors.Is(err, common.ErrInvalidOTP):
		return http.StatusBadRequest, "invalid OTP"
	case errors.Is(err, common.ErrInvalidPassword):
		return http.StatusBadRequest, "Invalid password"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}
