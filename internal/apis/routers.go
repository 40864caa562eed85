package apis

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mugiliam/common/hatchrbac"
	"github.com/mugiliam/common/httpx"
	"github.com/mugiliam/hatchsettingsrv/internal/common"
	"github.com/mugiliam/hatchsettingsrv/internal/settings"
	"github.com/rs/zerolog/log"
)

type settingsHandlers struct {
	reg *settings.Registry
}

// auditMutation records who changed what on every write path.
func auditMutation(ctx context.Context, action, domain, entryId string) {
	log.Ctx(ctx).Debug().
		Str("tenant", string(common.TenantIdFromContext(ctx))).
		Str("user", string(common.UserIdFromContext(ctx))).
		Str("domain", domain).
		Str("entry", entryId).
		Msg(action)
}

// Router mounts the settings domain handlers. Domain registration itself
// is not exposed over the wire: a validation routine cannot arrive in a
// request, so domains are registered by host code at startup.
func Router(r chi.Router, reg *settings.Registry) {
	h := &settingsHandlers{reg: reg}
	handlers := []httpx.RoleAuthorizedHandlerParam{
		{
			Method:  http.MethodGet,
			Path:    "/domains",
			Handler: h.listDomains,
			Op:      hatchrbac.Read,
		},
		{
			Method:  http.MethodGet,
			Path:    "/domains/{domainName}",
			Handler: h.getDomain,
			Op:      hatchrbac.Read,
		},
		{
			Method:  http.MethodGet,
			Path:    "/domains/{domainName}/entries/{entryId}",
			Handler: h.getEntry,
			Op:      hatchrbac.Read,
		},
		{
			Method:  http.MethodPut,
			Path:    "/domains/{domainName}/entries/{entryId}",
			Handler: h.putEntry,
			Op:      hatchrbac.Update,
		},
		{
			Method:  http.MethodDelete,
			Path:    "/domains/{domainName}/entries/{entryId}",
			Handler: h.deleteEntry,
			Op:      hatchrbac.Delete,
		},
		{
			Method:  http.MethodPut,
			Path:    "/domains/{domainName}/entries/{entryId}/values/{settingKey}",
			Handler: h.updateValue,
			Op:      hatchrbac.Update,
		},
		{
			Method:  http.MethodDelete,
			Path:    "/domains/{domainName}/entries/{entryId}/values/{settingKey}",
			Handler: h.resetValue,
			Op:      hatchrbac.Update,
		},
	}
	for _, handler := range handlers {
		r.Method(handler.Method, handler.Path, httpx.WrapHttpRsp(handler.Handler))
	}
}
