package middleware

import (
	"net/http"

	"github.com/mugiliam/hatchsettingsrv/internal/common"
	"github.com/mugiliam/hatchsettingsrv/pkg/types"
)

func LoadContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantId := r.URL.Query().Get("tenantId")
		userId := r.URL.Query().Get("userId")
		r = r.WithContext(
			common.SetUserIdInContext(
				common.SetTenantIdInContext(r.Context(), types.TenantId(tenantId)),
				types.UserId(userId),
			),
		)
		next.ServeHTTP(w, r)
	})
}
