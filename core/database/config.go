package database

// Config holds configuration for a database connection.
// Every environment in the registry carries one.
type Config struct {
	// Driver is the database driver (mysql, sqlite).
	Driver string `mapstructure:"driver" yaml:"driver" default:"mysql"`
	// Host is the database host.
	Host string `mapstructure:"host" yaml:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" yaml:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" yaml:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" yaml:"password" default:""`
	// Name is the database name, or the file path for sqlite.
	Name string `mapstructure:"name" yaml:"name" default:"config"`
	// Schema is the default schema for unqualified table names.
	Schema string `mapstructure:"schema" yaml:"schema" default:""`
	// TimeoutSeconds bounds connection setup, reads and writes.
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds" default:"30"`
	// MaxOpenConns caps open connections per environment.
	MaxOpenConns int `mapstructure:"max_open_conns" yaml:"max_open_conns" default:"10"`
}

// Supported driver names.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)
