package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/millet-kiosk/internal/application/dto"
	"github.com/jhoicas/millet-kiosk/pkg/jwt"
)

func newLoginCmd(c *cli) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Inicia sesión e imprime el token",
		Long: `Login cambia email y contraseña por un token del backend y lo imprime en
stdout, para exportarlo como KIOSK_TOKEN:

  export KIOSK_TOKEN=$(kioskctl login --email admin@millet.co)

La contraseña se lee de --password o de KIOSK_PASSWORD.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("KIOSK_PASSWORD")
			}
			in := dto.LoginRequest{Email: strings.TrimSpace(email), Password: password}
			if in.Email == "" || in.Password == "" {
				return fmt.Errorf("email y contraseña son requeridos")
			}
			token, err := c.gateway.Login(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			if claims, err := jwt.Parse("", token); err == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "rol: %s\n", claims.Role)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email de la cuenta")
	cmd.Flags().StringVar(&password, "password", "", "contraseña (por defecto KIOSK_PASSWORD)")
	return cmd
}
