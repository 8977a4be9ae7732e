package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "CLOCKHEAT_"

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

type Application struct {
	Server        Server        `koanf:"server"`
	Clockify      Clockify      `koanf:"clockify"`
	Insights      Insights      `koanf:"insights"`
	Database      Database      `koanf:"db"`
	Security      Security      `koanf:"security"`
	Notifications Notifications `koanf:"notifications"`
	Goals         Goals         `koanf:"goals"`
}

type Server struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"readtimeout"`
	WriteTimeout time.Duration `koanf:"writetimeout"`
	IdleTimeout  time.Duration `koanf:"idletimeout"`
	// Location used to turn entry instants into calendar days. Empty means the host's local zone.
	Timezone string `koanf:"timezone"`
}

type Clockify struct {
	BaseURL  string        `koanf:"baseurl"`
	ApiKey   string        `koanf:"apikey"`
	PageSize int           `koanf:"pagesize"`
	Timeout  time.Duration `koanf:"timeout"`
}

type Insights struct {
	Enabled bool   `koanf:"enabled"`
	Model   string `koanf:"model"`
	ApiKey  string `koanf:"apikey"`
}

type Database struct {
	// Driver is either "postgres" or "sqlite".
	Driver string `koanf:"driver"`
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
	// Path of the SQLite file when Driver is "sqlite".
	Path string `koanf:"path"`
}

type Security struct {
	Secret string `koanf:"secret"`
}

type Notifications struct {
	Desktop bool `koanf:"desktop"`
}

type Goals struct {
	// Concurrency limits parallel goal fetches. 0 fetches every goal at once.
	Concurrency int `koanf:"concurrency"`
}

func Defaults() Application {
	return Application{
		Server: Server{
			Addr:         ":8181",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Clockify: Clockify{
			BaseURL:  "https://api.clockify.me/api/v1",
			PageSize: 1000,
			Timeout:  30 * time.Second,
		},
		Insights: Insights{
			Enabled: true,
			Model:   "models/gemini-2.0-flash",
		},
		Database: Database{
			Driver: DriverSqlite,
			Host:   "localhost",
			Port:   5432,
			User:   "clockheat",
			Pass:   "",
			Name:   "clockheat",
			Schema: "clockheat",
			Path:   "clockheat.db",
		},
		Notifications: Notifications{
			Desktop: false,
		},
		Goals: Goals{
			Concurrency: 0,
		},
	}
}

func Load(path string) (Application, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Debugf("No .env file loaded: %v", err)
	}

	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}

// Location resolves the configured timezone, falling back to time.Local.
func (s Server) Location() *time.Location {
	if s.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		log.Warnf("Unknown timezone %q, using local time: %v", s.Timezone, err)
		return time.Local
	}
	return loc
}
