package types

import "github.com/google/uuid"

type TenantId string
type UserId string
type RecordId uuid.UUID

const DefaultLanguage = "en-US"

func (u RecordId) String() string {
	return uuid.UUID(u).String()
}

func (u RecordId) IsNil() bool {
	return u == RecordId(uuid.Nil)
}

// SettingType is the name of a recognized setting type. The full set of
// recognized names is owned by the resolver and declared statically there.
type SettingType string

const (
	SettingTypeInvalid  SettingType = "invalid"
	SettingTypeString   SettingType = "String"
	SettingTypeInteger  SettingType = "Integer"
	SettingTypeFloat    SettingType = "Float"
	SettingTypeBoolean  SettingType = "Boolean"
	SettingTypeLanguage SettingType = "Language"
	SettingTypeCommand  SettingType = "Command"
	SettingTypeTenant   SettingType = "Tenant"
	SettingTypeUser     SettingType = "User"
)

type Nullable interface {
	IsNil() bool
}
