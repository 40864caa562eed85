package provider

import (
	"net/http"

	"github.com/mugiliam/common/apperrors"
)

var (
	ErrProvider       apperrors.Error = apperrors.New("error in settings provider")
	ErrNotInitialized apperrors.Error = ErrProvider.New("provider not initialized")
	ErrTableNotFound  apperrors.Error = ErrProvider.New("table not found").SetStatusCode(http.StatusNotFound)
	ErrEntryNotFound  apperrors.Error = ErrProvider.New("entry not found").SetStatusCode(http.StatusNotFound)
	ErrStorage        apperrors.Error = ErrProvider.New("storage failure").SetStatusCode(http.StatusInternalServerError)
)
