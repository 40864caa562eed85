package apis

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mugiliam/common/httpx"
	"github.com/mugiliam/hatchsettingsrv/pkg/api"
)

func (h *settingsHandlers) putEntry(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	gw, err := h.domain(r)
	if err != nil {
		return nil, err
	}
	entryId := chi.URLParam(r, "entryId")
	if entryId == "" {
		return nil, httpx.ErrInvalidRequest()
	}

	if r.Body == nil {
		return nil, httpx.ErrInvalidRequest()
	}
	req, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, httpx.ErrUnableToReadRequest()
	}

	if apperr := gw.PutRecord(ctx, entryId, req); apperr != nil {
		return nil, apperr
	}
	auditMutation(ctx, "entry record replaced", gw.Name(), entryId)
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   nil,
	}, nil
}

func (h *settingsHandlers) updateValue(r *http.Request) (*httpx.Response, error) {
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

	if r.Body == nil {
		return nil, httpx.ErrInvalidRequest()
	}
	req, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, httpx.ErrUnableToReadRequest()
	}
	var raw any
	if err := json.Unmarshal(req, &raw); err != nil {
		return nil, httpx.ErrInvalidRequest("unable to parse request")
	}

	stored, apperr := gw.UpdateKey(ctx, entryId, settingKey, raw)
	if apperr != nil {
		return nil, apperr
	}
	auditMutation(ctx, "setting value updated", gw.Name(), entryId)
	rsp := &api.UpdateValueRsp{
		Key:   settingKey,
		Value: stored,
	}
	j, err := json.Marshal(rsp)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   j,
	}, nil
}
