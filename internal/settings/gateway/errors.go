package gateway

import (
	"net/http"

	"github.com/mugiliam/common/apperrors"
)

var (
	ErrGateway       apperrors.Error = apperrors.New("error in settings gateway")
	ErrNotReady      apperrors.Error = ErrGateway.New("gateway not initialized").SetStatusCode(http.StatusServiceUnavailable)
	ErrUnknownKey    apperrors.Error = ErrGateway.New("setting key not declared in schema").SetStatusCode(http.StatusNotFound)
	ErrBadValue      apperrors.Error = ErrGateway.New("value cannot be resolved to the declared type").SetStatusCode(http.StatusBadRequest)
	ErrOutOfBounds   apperrors.Error = ErrGateway.New("value violates the declared bounds").SetStatusCode(http.StatusBadRequest)
	ErrInvalidRecord apperrors.Error = ErrGateway.New("record does not match the domain schema").SetExpandError(true).SetStatusCode(http.StatusBadRequest)
)
