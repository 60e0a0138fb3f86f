package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"crowdfund-client/internal/devapi"
	"crowdfund-client/internal/model"
)

const maxBodyBytes = 1 << 20

type detailBody struct {
	Detail string `json:"detail"`
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError renders err in the shape a Django REST framework backend uses:
// field error maps for validation, {"detail": ...} for everything else.
func writeError(w http.ResponseWriter, err error) {
	var fieldErrs devapi.FieldErrors

	switch {
	case errors.As(err, &fieldErrs):
		writeJSON(w, http.StatusBadRequest, fieldErrs)
	case errors.Is(err, model.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Invalid email or password."})
	case errors.Is(err, model.ErrUnauthorized), errors.Is(err, model.ErrInvalidClaims):
		writeJSON(w, http.StatusUnauthorized, detailBody{Detail: "Given token not valid for any token type"})
	case errors.Is(err, model.ErrProjectNotFound), errors.Is(err, model.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, detailBody{Detail: "Not found."})
	case errors.Is(err, model.ErrForbidden):
		writeJSON(w, http.StatusForbidden, detailBody{Detail: "You do not have permission to perform this action."})
	case errors.Is(err, model.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, detailBody{Detail: err.Error()})
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, detailBody{Detail: "A server error occurred."})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return devapi.FieldErrors{"non_field_errors": {"JSON parse error - " + err.Error()}}
	}
	return nil
}
