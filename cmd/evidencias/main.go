// cmd/evidencias is the command-line client of the API.
// Uso: evidencias login -u tecnico1 -p ****; evidencias expedientes listar
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"evidencias/internal/dto"
	"evidencias/internal/model"
	"evidencias/internal/sesion"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func newRootCmd() *cobra.Command {
	var (
		baseURL   = envOr("EVIDENCIAS_API_URL", "http://localhost:3001")
		storePath = envOr("EVIDENCIAS_SESION", "")
		cl        *sesion.Cliente
	)

	root := &cobra.Command{
		Use:          "evidencias",
		Short:        "Cliente de línea de comandos para el registro de expedientes e indicios",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if storePath == "" {
				p, err := sesion.DefaultPath()
				if err != nil {
					return err
				}
				storePath = p
			}
			var err error
			cl, err = sesion.Nuevo(baseURL, sesion.NewFileStore(storePath))
			return err
		},
	}
	root.PersistentFlags().StringVar(&baseURL, "api-url", baseURL, "URL base del API (env EVIDENCIAS_API_URL)")
	root.PersistentFlags().StringVar(&storePath, "sesion", storePath, "archivo de sesión (env EVIDENCIAS_SESION)")

	cliente := func() *sesion.Cliente { return cl }
	root.AddCommand(
		newLoginCmd(cliente),
		newLogoutCmd(cliente),
		newWhoamiCmd(cliente),
		newExpedientesCmd(cliente),
		newIndiciosCmd(cliente),
	)
	return root
}

func ctxCmd(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func parseID(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("id inválido: %q", s)
	}
	return uint(v), nil
}

// ── Sesión ───────────────────────────────────────────────────────────────────

func newLoginCmd(cl func() *sesion.Cliente) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Iniciar sesión y guardar el token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("EVIDENCIAS_PASSWORD")
			}
			ctx, cancel := ctxCmd(cmd)
			defer cancel()
			ses, err := cl().Login(ctx, username, password)
			if err != nil {
				return err
			}
			fmt.Printf("sesión iniciada: %s (%s)\n", ses.Username, ses.Rol)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "usuario")
	cmd.Flags().StringVarP(&password, "password", "p", "", "contraseña (env EVIDENCIAS_PASSWORD)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCmd(cl func() *sesion.Cliente) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cerrar la sesión local",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := ctxCmd(cmd)
			defer cancel()
			if err := cl().Logout(ctx); err != nil {
				return err
			}
			fmt.Println("sesión cerrada")
			return nil
		},
	}
}

func newWhoamiCmd(cl func() *sesion.Cliente) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Mostrar la identidad de la sesión actual",
		RunE: func(cmd *cobra.Command, args []string) error {
			ses, ok := cl().Actual()
			if !ok {
				return sesion.ErrNoAutenticado
			}
			fmt.Printf("%s (%s) id=%d\n", ses.Username, ses.Rol, ses.ID)
			return nil
		},
	}
}

// ── Expedientes ──────────────────────────────────────────────────────────────

func newExpedientesCmd(cl func() *sesion.Cliente) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expedientes",
		Short: "Operaciones sobre expedientes",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return cl().RequiereRol(model.RolTecnico, model.RolCoordinador)
		},
	}

	var estado, activo string
	var tecnicoID uint
	listar := &cobra.Command{
		Use:   "listar",
		Short: "Listar expedientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := dto.ExpedienteFilter{Estado: estado, TecnicoID: tecnicoID}
			if activo != "" {
				b, err := strconv.ParseBool(activo)
				if err != nil {
					return fmt.Errorf("--activo debe ser true o false")
				}
				f.Activo = &b
			}
			ctx, cancel := ctxCmd(cmd)
			defer cancel()
			out, err := cl().ListarExpedientes(ctx, f)
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
	listar.Flags().StringVar(&estado, "estado", "", "pendiente | aprobado | rechazado")
	listar.Flags().StringVar(&activo, "activo", "", "true | false")
	listar.Flags().UintVar(&tecnicoID, "tecnico", 0, "id del técnico responsable")

	var codigo, descripcion string
	crear := &cobra.Command{
		Use:   "crear",
		Short: "Registrar un expediente",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := ctxCmd(cmd)
			defer cancel()
			out, err := cl().CrearExpediente(ctx, dto.CrearExpedienteRequest{Codigo: codigo, Descripcion: descripcion})
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
	crear.Flags().StringVar(&codigo, "codigo", "", "código único del expediente")
	crear.Flags().StringVar(&descripcion, "descripcion", "", "descripción")
	_ = crear.MarkFlagRequired("codigo")
	_ = crear.MarkFlagRequired("descripcion")

	var justificacion string
	dictamen := func(use, short string, fn func(*sesion.Cliente, context.Context, uint, string) (*dto.ExpedienteResponse, error)) *cobra.Command {
		c := &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				ctx, cancel := ctxCmd(cmd)
				defer cancel()
				out, err := fn(cl(), ctx, id, justificacion)
				if err != nil {
					return err
				}
				return printJSON(out)
			},
		}
		c.Flags().StringVar(&justificacion, "justificacion", "", "motivo del dictamen")
		return c
	}

	toggle := &cobra.Command{
		Use:   "activardesactivar <id>",
		Short: "Activar o desactivar un expediente",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := ctxCmd(cmd)
			defer cancel()
			out, err := cl().CambiarActivoExpediente(ctx, id)
			if err != nil {
				return err
			}
			fmt.Println(out.Message)
			return nil
		},
	}

	cmd.AddCommand(
		listar,
		crear,
		dictamen("aprobar", "Aprobar un expediente (coordinador)", (*sesion.Cliente).Aprobar),
		dictamen("rechazar", "Rechazar un expediente con justificación (coordinador)", (*sesion.Cliente).Rechazar),
		toggle,
	)
	return cmd
}

// ── Indicios ─────────────────────────────────────────────────────────────────

func newIndiciosCmd(cl func() *sesion.Cliente) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indicios",
		Short: "Operaciones sobre indicios",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return cl().RequiereRol(model.RolTecnico, model.RolCoordinador)
		},
	}

	var expedienteID uint
	listar := &cobra.Command{
		Use:   "listar",
		Short: "Listar indicios",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := ctxCmd(cmd)
			defer cancel()
			out, err := cl().ListarIndicios(ctx, expedienteID)
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
	listar.Flags().UintVar(&expedienteID, "expediente", 0, "filtrar por id de expediente")

	var (
		crearExp                                    uint
		descripcion, color, tamano, peso, ubicacion string
	)
	crear := &cobra.Command{
		Use:   "crear",
		Short: "Registrar un indicio en un expediente",
		RunE: func(cmd *cobra.Command, args []string) error {
			if crearExp == 0 {
				return errors.New("--expediente es requerido")
			}
			req := dto.CrearIndicioRequest{ExpedienteID: dto.NumericID(crearExp), Descripcion: descripcion}
			if color != "" {
				req.Color = &color
			}
			if tamano != "" {
				req.Tamano = &tamano
			}
			if ubicacion != "" {
				req.Ubicacion = &ubicacion
			}
			if peso != "" {
				d, err := decimal.NewFromString(peso)
				if err != nil {
					return fmt.Errorf("--peso inválido: %w", err)
				}
				req.Peso = dto.PesoDesde(d)
			}
			ctx, cancel := ctxCmd(cmd)
			defer cancel()
			out, err := cl().CrearIndicio(ctx, req)
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
	crear.Flags().UintVar(&crearExp, "expediente", 0, "id del expediente")
	crear.Flags().StringVar(&descripcion, "descripcion", "", "descripción")
	crear.Flags().StringVar(&color, "color", "", "color")
	crear.Flags().StringVar(&tamano, "tamano", "", "tamaño")
	crear.Flags().StringVar(&peso, "peso", "", "peso")
	crear.Flags().StringVar(&ubicacion, "ubicacion", "", "ubicación")
	_ = crear.MarkFlagRequired("descripcion")

	cmd.AddCommand(listar, crear)
	return cmd
}
