package apis

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mugiliam/common/httpx"
	"github.com/mugiliam/hatchsettingsrv/internal/settings"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/gateway"
	"github.com/mugiliam/hatchsettingsrv/pkg/api"
)

func (h *settingsHandlers) domain(r *http.Request) (gateway.Gateway, error) {
	domainName := chi.URLParam(r, "domainName")
	if domainName == "" {
		return nil, httpx.ErrInvalidRequest()
	}
	gw, ok := h.reg.Get(domainName)
	if !ok {
		return nil, settings.ErrDomainNotFound.Msg("domain " + domainName + " is not registered")
	}
	return gw, nil
}

func (h *settingsHandlers) listDomains(r *http.Request) (*httpx.Response, error) {
	rsp := &api.ListDomainsRsp{
		Domains: h.reg.Names(),
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

func (h *settingsHandlers) getDomain(r *http.Request) (*httpx.Response, error) {
	gw, err := h.domain(r)
	if err != nil {
		return nil, err
	}

	s := gw.Schema()
	schemaDoc := make(map[string]any, len(s))
	for key, desc := range s {
		schemaDoc[key] = desc
	}
	rsp := &api.GetDomainRsp{
		Name:     gw.Name(),
		Provider: gw.Provider().Name(),
		Schema:   schemaDoc,
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

func (h *settingsHandlers) getEntry(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	gw, err := h.domain(r)
	if err != nil {
		return nil, err
	}
	entryId := chi.URLParam(r, "entryId")
	if entryId == "" {
		return nil, httpx.ErrInvalidRequest()
	}

	record, apperr := gw.Get(ctx, entryId)
	if apperr != nil {
		return nil, apperr
	}
	j, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   j,
	}, nil
}
