package assemble

import "github.com/goliatone/go-assemble/internal/runtimeconfig"

var (
	ErrDistRequired            = runtimeconfig.ErrDistRequired
	ErrDistOutsideRoot         = runtimeconfig.ErrDistOutsideRoot
	ErrSlugStyleInvalid        = runtimeconfig.ErrSlugStyleInvalid
	ErrPatternInvalid          = runtimeconfig.ErrPatternInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

// DefaultConfigFile is the file name looked up in the project root.
const DefaultConfigFile = runtimeconfig.DefaultFileName

type (
	Config        = runtimeconfig.Config
	LoggingConfig = runtimeconfig.LoggingConfig
	Patterns      = runtimeconfig.Patterns
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML config file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}

// ParseConfig decodes YAML bytes over DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	return runtimeconfig.Parse(data)
}
