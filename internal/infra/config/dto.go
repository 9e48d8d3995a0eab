package config

import (
	"strings"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
)

// fileConfig mirrors studytrack.yaml.
type fileConfig struct {
	Program struct {
		Name               string `mapstructure:"name"`
		RegularStudyPeriod int    `mapstructure:"regular_study_period"`
		MaxSemester        int    `mapstructure:"max_semester"`
	} `mapstructure:"program"`

	Storage struct {
		Backend  string `mapstructure:"backend"`
		Path     string `mapstructure:"path"`
		Postgres struct {
			DSN string `mapstructure:"dsn"`
			Key string `mapstructure:"key"`
		} `mapstructure:"postgres"`
		Redis struct {
			Addr     string `mapstructure:"addr"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
			Key      string `mapstructure:"key"`
		} `mapstructure:"redis"`
	} `mapstructure:"storage"`
}

func (f fileConfig) toDomain() domain.Config {
	var c domain.Config
	c.Program.Name = strings.TrimSpace(f.Program.Name)
	c.Program.RegularStudyPeriod = f.Program.RegularStudyPeriod
	c.Program.MaxSemester = f.Program.MaxSemester

	c.Storage.Backend = domain.StorageBackend(strings.ToLower(strings.TrimSpace(f.Storage.Backend)))
	c.Storage.Path = strings.TrimSpace(f.Storage.Path)
	c.Storage.Postgres.DSN = f.Storage.Postgres.DSN
	c.Storage.Postgres.Key = f.Storage.Postgres.Key
	c.Storage.Redis.Addr = f.Storage.Redis.Addr
	c.Storage.Redis.Password = f.Storage.Redis.Password
	c.Storage.Redis.DB = f.Storage.Redis.DB
	c.Storage.Redis.Key = f.Storage.Redis.Key
	return c
}
