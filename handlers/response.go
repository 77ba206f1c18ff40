package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/qrmenu/services"
	"github.com/ray-remotestate/qrmenu/utils"
)

const maxJSONBody = 1 << 20

// writeServiceError maps service errors onto status codes. Anything unexpected is logged
// and answered with a generic message.
func writeServiceError(w http.ResponseWriter, logger logrus.FieldLogger, err error, action string) {
	var (
		validationErr   *services.ValidationError
		notFoundErr     *services.NotFoundError
		insufficientErr *services.InsufficientAvailabilityError
	)

	switch {
	case errors.As(err, &validationErr):
		utils.WriteError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, services.ErrNotAuthorized):
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.WriteError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.As(err, &notFoundErr):
		utils.WriteError(w, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &insufficientErr):
		utils.WriteError(w, http.StatusConflict, insufficientErr.Error())
	default:
		logger.WithError(err).Error("failed to " + action)
		utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("failed to %s", action))
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}
