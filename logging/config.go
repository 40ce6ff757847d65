package logging

// Config contains the configuration of the logging package.
type Config struct {
	Environment string
	Level       Level
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Environment: "prod",
		Level:       InfoLevel,
	}
}
