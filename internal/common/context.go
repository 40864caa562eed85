// Description: This file contains the context package which is used to set and retrieve data from the context.
package common

import (
	"context"

	"github.com/mugiliam/hatchsettingsrv/pkg/types"
)

// ctxTenantIdKeyType represents the key type for the tenant ID in the context.
type ctxTenantIdKeyType string

const ctxTenantIdKey ctxTenantIdKeyType = "HatchSettingsTenantId"

// ctxUserIdKeyType represents the key type for the user ID in the context.
type ctxUserIdKeyType string

const ctxUserIdKey ctxUserIdKeyType = "HatchSettingsUserId"

// SetTenantIdInContext sets the tenant ID in the provided context.
func SetTenantIdInContext(ctx context.Context, tenantId types.TenantId) context.Context {
	return context.WithValue(ctx, ctxTenantIdKey, tenantId)
}

// TenantIdFromContext retrieves the tenant ID from the provided context.
func TenantIdFromContext(ctx context.Context) types.TenantId {
	if tenantId, ok := ctx.Value(ctxTenantIdKey).(types.TenantId); ok {
		return tenantId
	}
	return ""
}

// SetUserIdInContext sets the user ID in the provided context.
func SetUserIdInContext(ctx context.Context, userId types.UserId) context.Context {
	return context.WithValue(ctx, ctxUserIdKey, userId)
}

// UserIdFromContext retrieves the user ID from the provided context.
func UserIdFromContext(ctx context.Context) types.UserId {
	if userId, ok := ctx.Value(ctxUserIdKey).(types.UserId); ok {
		return userId
	}
	return ""
}
