// Package main kioskctl: cliente de línea de comandos del back office del
// kiosco. Login y exportación de listados para scripts y tareas programadas.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jhoicas/millet-kiosk/internal/application/ports"
	"github.com/jhoicas/millet-kiosk/internal/infrastructure/kioskapi"
	infrapdf "github.com/jhoicas/millet-kiosk/internal/infrastructure/pdf"
	"github.com/jhoicas/millet-kiosk/pkg/config"
	"github.com/jhoicas/millet-kiosk/pkg/listview"
	"github.com/jhoicas/millet-kiosk/pkg/logger"
)

// cli dependencias de los comandos. Los tests las fijan antes de ejecutar;
// en uso normal se construyen en PersistentPreRunE desde la configuración.
type cli struct {
	gateway ports.Gateway
	docs    ports.DocumentRenderer
	csv     listview.CSVOptions
	now     func() time.Time

	v     *viper.Viper
	token string
}

func main() {
	if err := newRootCmd(&cli{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	c.v = viper.New()
	root := &cobra.Command{
		Use:   "kioskctl",
		Short: "Cliente de línea de comandos del kiosco de mijo",
		Long: `kioskctl usa el backend REST con las mismas vistas de listado que la consola
web: inicia sesión para obtener un token y exporta cualquier listado (filtrado
y ordenado) como CSV o PDF.

La configuración sale del entorno (API_BASE_URL, KIOSK_TOKEN,
CSV_ESCAPE_QUOTES...) o de un .env en el directorio actual; los flags mandan.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.init,
	}
	root.PersistentFlags().String("api", "", "URL base del backend (por defecto API_BASE_URL)")
	root.PersistentFlags().StringVar(&c.token, "token", "", "token de sesión (por defecto KIOSK_TOKEN)")
	_ = c.v.BindPFlag("API_BASE_URL", root.PersistentFlags().Lookup("api"))

	root.AddCommand(newLoginCmd(c))
	root.AddCommand(newExportCmd(c))
	return root
}

// init carga la configuración y construye el cliente REST si no viene dado.
func (c *cli) init(cmd *cobra.Command, _ []string) error {
	if c.now == nil {
		c.now = time.Now
	}
	if c.token == "" {
		c.token = strings.TrimSpace(os.Getenv("KIOSK_TOKEN"))
	}
	if c.gateway != nil {
		return nil
	}

	c.v.SetConfigName(".env")
	c.v.SetConfigType("env")
	c.v.AddConfigPath(".")
	_ = c.v.ReadInConfig() // ignoramos error si no existe
	c.v.AutomaticEnv()

	cfg, err := config.FromViper(c.v)
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: "production", Level: cfg.App.LogLevel, Output: cmd.ErrOrStderr()})

	c.gateway = kioskapi.New(kioskapi.Config{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       cfg.API.Timeout,
		RatePerSecond: cfg.API.RatePerSecond,
		Logger:        log.Component("kioskapi").Zerolog(),
	})
	c.docs = infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	c.csv = listview.CSVOptions{EscapeQuotes: cfg.List.CSVEscapeQuotes}
	return nil
}

func (c *cli) backend() ports.Backend {
	return c.gateway.ForSession(c.token)
}

// writeOutput escribe data en path; "" o "-" = stdout.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	var w io.Writer = cmd.OutOrStdout()
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("crear salida: %w", err)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("escribir salida: %w", err)
	}
	return nil
}
