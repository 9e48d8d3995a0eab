// Package config discovers, loads and validates studytrack.yaml.
//
// Precedence, highest first: STUDYTRACK_* environment variables (including
// those from a .env next to the config file), the config file, defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
)

const EnvPrefix = "STUDYTRACK"

// keys lists every config key so environment overrides work for keys absent
// from the file.
var keys = []string{
	"program.name",
	"program.regular_study_period",
	"program.max_semester",
	"storage.backend",
	"storage.path",
	"storage.postgres.dsn",
	"storage.postgres.key",
	"storage.redis.addr",
	"storage.redis.password",
	"storage.redis.db",
	"storage.redis.key",
}

type Options struct {
	// ConfigFile is an explicit path (--config). It must exist.
	ConfigFile string
	// StartDir is where discovery starts when ConfigFile is empty.
	StartDir string
}

// Loaded is the resolved configuration plus where it came from.
type Loaded struct {
	Config domain.Config
	// Root is the directory of the config file, or StartDir when none exists.
	Root string
	// File is empty when running on defaults.
	File string
}

var validate = validator.New()

func Load(opts Options) (Loaded, error) {
	root, file, err := locate(opts)
	if err != nil {
		return Loaded{}, err
	}

	if err := loadDotEnv(root); err != nil {
		return Loaded{}, err
	}

	v := viper.New()
	setDefaults(v, domain.DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Loaded{}, invalid("config.read", file, err)
		}
	}

	var dto fileConfig
	if err := v.Unmarshal(&dto); err != nil {
		return Loaded{}, invalid("config.unmarshal", file, err)
	}

	cfg := dto.toDomain()
	if cfg.Program.MaxSemester == 0 {
		cfg.Program.MaxSemester = cfg.Program.RegularStudyPeriod
	}
	if cfg.Storage.Path != "" && !filepath.IsAbs(cfg.Storage.Path) {
		cfg.Storage.Path = filepath.Join(root, cfg.Storage.Path)
	}

	if err := Validate(cfg); err != nil {
		return Loaded{}, invalid("config.validate", file, err)
	}

	return Loaded{Config: cfg, Root: root, File: file}, nil
}

// Validate checks struct tags plus the cross-field rules tags cannot express.
func Validate(cfg domain.Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	switch cfg.Storage.Backend {
	case domain.BackendPostgres:
		if strings.TrimSpace(cfg.Storage.Postgres.DSN) == "" {
			return errors.New("storage.postgres.dsn is required for backend postgres")
		}
	case domain.BackendRedis:
		if strings.TrimSpace(cfg.Storage.Redis.Addr) == "" {
			return errors.New("storage.redis.addr is required for backend redis")
		}
	}
	return nil
}

func locate(opts Options) (root, file string, err error) {
	if opts.ConfigFile != "" {
		abs, err := filepath.Abs(opts.ConfigFile)
		if err != nil {
			return "", "", invalid("config.locate", opts.ConfigFile, err)
		}
		if _, err := os.Stat(abs); err != nil {
			return "", "", &domain.OpError{
				Op:   "config.locate",
				Kind: domain.KindNotFound,
				Path: abs,
				Err:  fmt.Errorf("%w: %w", domain.ErrNotFound, err),
			}
		}
		return filepath.Dir(abs), abs, nil
	}

	start := opts.StartDir
	if start == "" {
		if start, err = os.Getwd(); err != nil {
			return "", "", invalid("config.locate", "", err)
		}
	}

	f := NewFinder()
	found, err := f.FindRoot(start)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			abs, _ := filepath.Abs(start)
			return abs, "", nil
		}
		return "", "", err
	}
	return found, filepath.Join(found, f.ConfigFile), nil
}

// loadDotEnv never overrides variables already present in the environment.
func loadDotEnv(root string) error {
	path := filepath.Join(root, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return invalid("config.dotenv", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper, d domain.Config) {
	v.SetDefault("program.name", d.Program.Name)
	v.SetDefault("program.regular_study_period", d.Program.RegularStudyPeriod)
	v.SetDefault("storage.backend", string(d.Storage.Backend))
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.postgres.key", d.Storage.Postgres.Key)
	v.SetDefault("storage.redis.addr", d.Storage.Redis.Addr)
	v.SetDefault("storage.redis.db", d.Storage.Redis.DB)
	v.SetDefault("storage.redis.key", d.Storage.Redis.Key)
}

func invalid(op, path string, err error) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err),
	}
}
