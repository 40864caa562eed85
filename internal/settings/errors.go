package settings

import (
	"net/http"

	"github.com/mugiliam/common/apperrors"
)

var (
	ErrSettings             apperrors.Error = apperrors.New("error in settings registry")
	ErrInvalidArgument      apperrors.Error = ErrSettings.New("invalid argument").SetStatusCode(http.StatusBadRequest)
	ErrDuplicateDomain      apperrors.Error = ErrSettings.New("domain already registered").SetStatusCode(http.StatusConflict)
	ErrInvalidSchema        apperrors.Error = ErrSettings.New("invalid schema").SetExpandError(true).SetStatusCode(http.StatusBadRequest)
	ErrUnknownProvider      apperrors.Error = ErrSettings.New("unknown provider").SetStatusCode(http.StatusBadRequest)
	ErrProviderRoleMismatch apperrors.Error = ErrSettings.New("provider capability mismatch").SetStatusCode(http.StatusBadRequest)
	ErrValidation           apperrors.Error = ErrSettings.New("validation failed").SetExpandError(true).SetStatusCode(http.StatusBadRequest)
	ErrDomainNotFound       apperrors.Error = ErrSettings.New("domain not found").SetStatusCode(http.StatusNotFound)
)
