package logger

// Log formats
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Defaults applied to empty Config fields
const (
	DefaultLevel       = "info"
	DefaultServiceName = "armory"
	DefaultVersion     = "dev"
	EnvironmentDev     = "dev"
	EnvironmentProd    = "prod"
)

// Attribute keys carried by every record, plus the run id added by FromContext
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRunID       = "run_id"
)
