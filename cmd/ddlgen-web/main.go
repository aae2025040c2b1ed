// Command ddlgen-web starts the upload form that turns a metadata workbook
// into a DDL script.
//
// Settings come from the environment (or a .env file in the working
// directory):
//
//	DDLGEN_WEB_ADDR           listen address (default :8080)
//	DDLGEN_WEB_MAX_UPLOAD_MB  upload limit in MiB (default 16)
//	DDLGEN_WEB_SCHEMA         default schema shown in the form
//
// Usage:
//
//	go run ./cmd/ddlgen-web -addr :8080 -config configs/ddlgen.yaml
package main

import (
	"flag"
	"log"
	"os"

	envconfig "github.com/andiksetyawan/config"

	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/config"
	_ "github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect/all"
	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/webui"
)

// settings is the environment-driven part of the web configuration.
type settings struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	MaxUploadMB int64  `env:"MAX_UPLOAD_MB" envDefault:"16"`
	Schema      string `env:"SCHEMA"`
}

type envSettings struct {
	Web settings `envPrefix:"DDLGEN_WEB_"`
}

type server interface {
	ListenAndServe() error
}

var newServer = func(cfg webui.Config) server { return webui.NewServer(cfg) }

func main() {
	if err := run(os.Args[1:], log.Default()); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, logger *log.Logger) error {
	fs := flag.NewFlagSet("ddlgen-web", flag.ContinueOnError)
	addr := fs.String("addr", "", "listen address (overrides DDLGEN_WEB_ADDR)")
	cfgPath := fs.String("config", "", "optional generation config (JSON or YAML)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	env, err := loadSettings(".env")
	if err != nil {
		return err
	}
	if *addr != "" {
		env.Addr = *addr
	}

	base := config.Default()
	if *cfgPath != "" {
		if base, err = config.Load(*cfgPath); err != nil {
			return err
		}
		for _, iss := range config.ValidateConfig(base) {
			logger.Printf("config: %v", iss)
		}
	}
	if env.Schema != "" {
		base.Schema = env.Schema
	}

	srv := newServer(webui.Config{
		Addr:           env.Addr,
		MaxUploadBytes: env.MaxUploadMB << 20,
		Base:           base,
	})
	logger.Printf("listening on %s", env.Addr)
	return srv.ListenAndServe()
}

// loadSettings reads DDLGEN_WEB_* variables, first loading envPath when it
// exists.
func loadSettings(envPath string) (settings, error) {
	loader := envconfig.New()
	if _, err := os.Stat(envPath); err == nil {
		loader = envconfig.New(envconfig.WithEnvPath(envPath))
	}
	var s envSettings
	if err := loader.Load(&s); err != nil {
		return settings{}, err
	}
	return s.Web, nil
}
