package settings

// Register the built-in storage providers.
import (
	_ "github.com/mugiliam/hatchsettingsrv/internal/settings/provider/jsonfile"
	_ "github.com/mugiliam/hatchsettingsrv/internal/settings/provider/memcache"
	_ "github.com/mugiliam/hatchsettingsrv/internal/settings/provider/postgres"
	_ "github.com/mugiliam/hatchsettingsrv/internal/settings/provider/rediscache"
)
