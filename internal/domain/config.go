package domain

// StorageBackend selects the storage provider implementation.
type StorageBackend string

const (
	BackendFile     StorageBackend = "file"
	BackendPostgres StorageBackend = "postgres"
	BackendRedis    StorageBackend = "redis"
)

// Config represents the studytrack configuration loaded from studytrack.yaml.
type Config struct {
	Program ProgramConfig
	Storage StorageConfig
}

type ProgramConfig struct {
	Name               string `validate:"required"`
	RegularStudyPeriod int    `validate:"min=1,max=30"`
	// MaxSemester bounds semester numbers accepted from the user.
	MaxSemester int `validate:"min=1"`
}

type StorageConfig struct {
	Backend  StorageBackend `validate:"oneof=file postgres redis"`
	Path     string         `validate:"required_if=Backend file"`
	Postgres PostgresConfig
	Redis    RedisConfig
}

type PostgresConfig struct {
	DSN string
	Key string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int `validate:"min=0"`
	Key      string
}

// DefaultConfig provides sane defaults if studytrack.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Program: ProgramConfig{
			Name:               "Informatik",
			RegularStudyPeriod: DefaultRegularStudyPeriod,
			MaxSemester:        DefaultRegularStudyPeriod,
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    "study_data.json",
			Postgres: PostgresConfig{
				Key: "default",
			},
			Redis: RedisConfig{
				Addr: "localhost:6379",
				Key:  "studytrack:program",
			},
		},
	}
}
