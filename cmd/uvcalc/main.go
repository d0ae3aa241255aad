package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/uvsystems/uvcalc/internal/app"
	"github.com/uvsystems/uvcalc/internal/constants"
	"github.com/uvsystems/uvcalc/internal/controllers/restserver"
	"github.com/uvsystems/uvcalc/internal/log"
	"github.com/uvsystems/uvcalc/pkg/catalog"
)

func main() {
	catFile := flag.String("catalog", "", "Path to catalog source:\n\t\t\t  YAML: catalog.yaml\n\t\t\t  SQLite: catalog.db\n\t\t\t  Omit to use the built-in catalog")
	catBackend := flag.String("catalog-backend", "yaml", "Catalog backend type: 'yaml' for YAML files, 'sqlite' for SQLite databases")
	listenAddr := flag.String("listen", "0.0.0.0", "Address to listen on")
	port := flag.Int("port", 8080, "HTTP port to listen on")
	tlsCert := flag.String("tls-cert", "", "Path to TLS certificate (optional)")
	tlsKey := flag.String("tls-key", "", "Path to TLS key (optional)")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("uvcalc %s\n", constants.Version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Select the catalog provider
	provider, err := catalogProvider(*catFile, *catBackend)
	if err != nil {
		log.Errorf("Failed to configure catalog source: %v", err)
		os.Exit(1)
	}

	serverConfig := restserver.Config{
		ListenAddr:  *listenAddr,
		Port:        *port,
		TLSCertPath: *tlsCert,
		TLSKeyPath:  *tlsKey,
	}

	// Create and run the application
	application := app.New(provider, serverConfig, log.GetSugaredLogger())
	if err := application.Run(context.Background()); err != nil {
		log.Errorf("Application error: %v", err)
		os.Exit(1)
	}
}

func catalogProvider(catFile, catBackend string) (catalog.Provider, error) {
	if catFile == "" {
		return catalog.NewBuiltinProvider(), nil
	}

	filename, _ := filepath.Abs(catFile)

	switch catBackend {
	case "yaml":
		return catalog.NewYAMLProvider(filename), nil
	case "sqlite":
		provider, err := catalog.NewSQLiteProvider(filename)
		if err != nil {
			return nil, fmt.Errorf("error creating SQLite provider: %w", err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unsupported catalog backend: %s. Use 'yaml' or 'sqlite'", catBackend)
	}
}
