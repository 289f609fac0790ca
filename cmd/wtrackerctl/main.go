// wtrackerctl is a small operations CLI against a running WTRACKER server.
// Credentials are asked per invocation and tokens live only in memory.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Fraancoboss/WTRACKER/internal/client"
	"github.com/Fraancoboss/WTRACKER/internal/dto"

	"github.com/spf13/cobra"
)

var (
	flagServer   string
	flagUser     string
	flagPassword string
	flagCentro   string
	flagEstado   string
	flagMaterial string
	flagPage     int
	flagLimit    int
)

var rootCmd = &cobra.Command{
	Use:   "wtrackerctl",
	Short: "CLI de administración para WTRACKER",
	Long: `wtrackerctl opera contra un servidor WTRACKER en ejecución.

Available subcommands:
  login   - Comprueba las credenciales contra el servidor
  resumen - Contadores de pedidos por estado
  pedidos - Listar, consultar, crear y eliminar pedidos`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Comprueba las credenciales contra el servidor",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)
		resp, err := c.Login(cmd.Context(), flagUser, flagPassword)
		if err != nil {
			return err
		}
		fmt.Printf("Autenticado como %s (%s)\n", resp.User.Nombre, resp.User.Rol)
		return nil
	},
}

var resumenCmd = &cobra.Command{
	Use:   "resumen",
	Short: "Muestra los contadores de pedidos por estado",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, c, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		r, err := c.Resumen(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Total:       %d\n", r.Total)
		fmt.Printf("Listo:       %d\n", r.Listo)
		fmt.Printf("En curso:    %d\n", r.EnCurso)
		fmt.Printf("Detenido:    %d\n", r.Detenido)
		fmt.Printf("No iniciado: %d\n", r.NoIniciado)
		return nil
	},
}

var pedidosCmd = &cobra.Command{
	Use:   "pedidos",
	Short: "Operaciones sobre pedidos",
}

var pedidosListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lista pedidos con filtros opcionales",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, c, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		resp, err := c.ListarPedidos(ctx, dto.PedidoFilter{
			Centro:   flagCentro,
			Estado:   flagEstado,
			Material: flagMaterial,
			Page:     flagPage,
			Limit:    flagLimit,
		})
		if err != nil {
			return err
		}
		for _, p := range resp.Pedidos {
			fmt.Printf("%-15s  %-10s  %-8s  vence %s  %s\n",
				p.ID, p.Centro, p.Material, p.FechaVencimiento, p.Estado)
		}
		fmt.Printf("\n%d pedidos (página %d de %d)\n", resp.Total, resp.Page, resp.TotalPages)
		return nil
	},
}

var pedidosGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Muestra un pedido con sus fases",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, c, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		p, err := c.ObtenerPedido(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Pedido:      %s\n", p.ID)
		fmt.Printf("Centro:      %s\n", p.Centro)
		fmt.Printf("Material:    %s\n", p.Material)
		fmt.Printf("Entrada:     %s\n", p.FechaEntrada)
		fmt.Printf("Vencimiento: %s\n", p.FechaVencimiento)
		fmt.Printf("Estado:      %s\n", p.Estado)
		if p.Incidencias != nil {
			fmt.Printf("Incidencias: %s\n", *p.Incidencias)
		}
		if len(p.Fases) > 0 {
			fmt.Println("Fases:")
			for _, f := range p.Fases {
				fmt.Printf("  %-12s %s\n", f.Tipo, f.Estado)
			}
		}
		return nil
	},
}

var (
	flagFechaEntrada     string
	flagFechaVencimiento string
	flagTransporte       bool
)

var pedidosCrearCmd = &cobra.Command{
	Use:   "crear <id>",
	Short: "Crea un pedido (Admin u Oficina)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, c, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		p, err := c.CrearPedido(ctx, dto.CrearPedidoRequest{
			ID:               args[0],
			FechaEntrada:     flagFechaEntrada,
			Centro:           flagCentro,
			Material:         flagMaterial,
			FechaVencimiento: flagFechaVencimiento,
			Transporte:       flagTransporte,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Pedido %s creado (estado %s)\n", p.ID, p.Estado)
		return nil
	},
}

var pedidosDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Elimina un pedido (solo Admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, c, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		if err := c.EliminarPedido(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Pedido %s eliminado\n", args[0])
		return nil
	},
}

// loggedIn builds a client and authenticates with the --user/--password flags.
// Per-request timeouts live inside the client.
func loggedIn(cmd *cobra.Command) (context.Context, *client.Client, error) {
	if flagUser == "" || flagPassword == "" {
		return nil, nil, fmt.Errorf("se requieren --user y --password")
	}
	ctx := cmd.Context()
	c := client.New(flagServer)
	if _, err := c.Login(ctx, flagUser, flagPassword); err != nil {
		return nil, nil, err
	}
	return ctx, c, nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "http://localhost:4000", "URL del servidor WTRACKER")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "Nombre de usuario")
	rootCmd.PersistentFlags().StringVar(&flagPassword, "password", "", "Contraseña")

	pedidosListCmd.Flags().StringVar(&flagCentro, "centro", "", "Filtrar por centro")
	pedidosListCmd.Flags().StringVar(&flagEstado, "estado", "", "Filtrar por estado")
	pedidosListCmd.Flags().StringVar(&flagMaterial, "material", "", "Filtrar por material")
	pedidosListCmd.Flags().IntVar(&flagPage, "page", 1, "Página")
	pedidosListCmd.Flags().IntVar(&flagLimit, "limit", 20, "Registros por página")

	pedidosCrearCmd.Flags().StringVar(&flagCentro, "centro", "", "Centro del pedido")
	pedidosCrearCmd.Flags().StringVar(&flagMaterial, "material", "", "PVC | Aluminio")
	pedidosCrearCmd.Flags().StringVar(&flagFechaEntrada, "entrada", "", "Fecha de entrada (YYYY-MM-DD)")
	pedidosCrearCmd.Flags().StringVar(&flagFechaVencimiento, "vencimiento", "", "Fecha de vencimiento (YYYY-MM-DD)")
	pedidosCrearCmd.Flags().BoolVar(&flagTransporte, "transporte", false, "Incluye transporte")

	pedidosCmd.AddCommand(pedidosListCmd, pedidosGetCmd, pedidosCrearCmd, pedidosDeleteCmd)
	rootCmd.AddCommand(loginCmd, resumenCmd, pedidosCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
