package apis

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mugiliam/common/httpx"
)

func (h *settingsHandlers) deleteEntry(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	gw, err := h.domain(r)
	if err != nil {
		return nil, err
	}
	entryId := chi.URLParam(r, "entryId")
	if entryId == "" {
		return nil, httpx.ErrInvalidRequest()
	}

	if apperr := gw.Delete(ctx, entryId); apperr != nil {
		return nil, apperr
	}
	auditMutation(ctx, "entry deleted", gw.Name(), entryId)
	return &httpx.Response{
		StatusCode: http.StatusNoContent,
		Response:   nil,
	}, nil
}

func (h *settingsHandlers) resetValue(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	gw, err := h.domain(r)
	if err != nil {
		return nil, err
	}
	entryId := chi.URLParam(r, "entryId")
	settingKey := chi.URLParam(r, "settingKey")
	if entryId == "" || settingKey == "" {
		return nil, httpx.ErrInvalidRequest()
	}

	if apperr := gw.ResetKey(ctx, entryId, settingKey); apperr != nil {
		return nil, apperr
	}
	auditMutation(ctx, "setting value reset", gw.Name(), entryId)
	return &httpx.Response{
		StatusCode: http.StatusNoContent,
		Response:   nil,
	}, nil
}
