package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/millet-kiosk/internal/application/dto"
	"github.com/jhoicas/millet-kiosk/internal/application/listing"
	"github.com/jhoicas/millet-kiosk/internal/domain"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
)

// exportOptions flags de export; se traducen al mismo State que la URL de la
// consola web.
type exportOptions struct {
	search  string
	filters []string // nombre=valor, repetible
	mins    []string // nombre=n
	maxs    []string // nombre=n
	sort    string
	format  string
	out     string
	shop    string
}

var exportViews = []string{
	listing.ViewProducts, listing.ViewOrders, listing.ViewMyOrders,
	listing.ViewInventory, listing.ViewRestocks, listing.ViewSellers,
}

func newExportCmd(c *cli) *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export <vista>",
		Short: "Exporta una vista de listado como CSV o PDF",
		Long: `Export descarga la colección completa de una vista, con los mismos filtros y
orden que la consola web, y la escribe como CSV o PDF.

Vistas: ` + strings.Join(exportViews, ", ") + `

Ejemplos:
  kioskctl export inventory --shop shop-1 --filter level=low
  kioskctl export orders --filter status=pending --filter status=accepted --sort total:desc
  kioskctl export products --search mijo --min price=5 --format pdf --out catalogo.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.state()
			if err != nil {
				return err
			}
			out, filename, rows, err := c.export(cmd.Context(), args[0], opts, st)
			if err != nil {
				return err
			}
			target := opts.out
			if target == "" && opts.format == "pdf" {
				target = filename
			}
			if err := writeOutput(cmd, target, out); err != nil {
				return err
			}
			if target != "" && target != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d filas\n", target, rows)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.search, "search", "", "texto a buscar")
	cmd.Flags().StringArrayVar(&opts.filters, "filter", nil, "filtro de pertenencia nombre=valor (repetible)")
	cmd.Flags().StringArrayVar(&opts.mins, "min", nil, "mínimo de un rango nombre=n")
	cmd.Flags().StringArrayVar(&opts.maxs, "max", nil, "máximo de un rango nombre=n")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "orden clave:asc|desc")
	cmd.Flags().StringVar(&opts.format, "format", "csv", "csv o pdf")
	cmd.Flags().StringVar(&opts.out, "out", "", "archivo de salida (csv: stdout por defecto; pdf: nombre sugerido)")
	cmd.Flags().StringVar(&opts.shop, "shop", "", "tienda para orders, inventory y restocks (vacío = todas)")
	return cmd
}

// state arma la query string equivalente y la interpreta con ParseState.
func (o exportOptions) state() (listing.State, error) {
	q := url.Values{}
	if s := strings.TrimSpace(o.search); s != "" {
		q.Set("q", s)
	}
	if s := strings.TrimSpace(o.sort); s != "" {
		q.Set("sort", s)
	}
	for _, f := range o.filters {
		name, value, err := pair(f, "--filter")
		if err != nil {
			return listing.State{}, err
		}
		q.Add("f."+name, value)
	}
	for prefix, list := range map[string][]string{"min.": o.mins, "max.": o.maxs} {
		for _, f := range list {
			name, value, err := pair(f, "--"+strings.TrimSuffix(prefix, "."))
			if err != nil {
				return listing.State{}, err
			}
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				return listing.State{}, fmt.Errorf("%s: %q no es un número", name, value)
			}
			q.Set(prefix+name, value)
		}
	}
	switch o.format {
	case "csv", "pdf":
	default:
		return listing.State{}, fmt.Errorf("formato desconocido %q (csv o pdf)", o.format)
	}
	return listing.ParseState(q), nil
}

func pair(arg, flag string) (name, value string, err error) {
	name, value, ok := strings.Cut(arg, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("%s %q: se esperaba nombre=valor", flag, arg)
	}
	return name, strings.TrimSpace(value), nil
}

// export despacha la vista al exportador genérico.
func (c *cli) export(ctx context.Context, view string, opts exportOptions, st listing.State) ([]byte, string, int, error) {
	out, filename, rows, err := c.exportView(ctx, view, opts, st)
	if errors.Is(err, domain.ErrUnauthorized) {
		return nil, "", 0, fmt.Errorf("%w: %s requiere rol %s (--token o KIOSK_TOKEN)", err, view, viewRoles[view])
	}
	return out, filename, rows, err
}

func (c *cli) exportView(ctx context.Context, view string, opts exportOptions, st listing.State) ([]byte, string, int, error) {
	b := c.backend()
	switch view {
	case listing.ViewProducts:
		return exportList(ctx, c, listing.Products(), listing.ProductSource(b), st, opts.format)
	case listing.ViewOrders:
		return exportList(ctx, c, listing.Orders(), listing.ShopOrderSource(b, opts.shop), st, opts.format)
	case listing.ViewMyOrders:
		return exportList(ctx, c, listing.MyOrders(), listing.MyOrderSource(b), st, opts.format)
	case listing.ViewInventory:
		return exportList(ctx, c, listing.Inventory(), listing.InventorySource(b, opts.shop), st, opts.format)
	case listing.ViewRestocks:
		return exportList(ctx, c, listing.Restocks(), listing.RestockSource(b, opts.shop), st, opts.format)
	case listing.ViewSellers:
		return exportList(ctx, c, listing.Sellers(), listing.SellerSource(b), st, opts.format)
	default:
		return nil, "", 0, fmt.Errorf("vista desconocida %q (válidas: %s)", view, strings.Join(exportViews, ", "))
	}
}

// exportList carga la vista una vez y serializa la colección filtrada y
// ordenada completa. Devuelve los bytes, el nombre sugerido y las filas.
func exportList[T any](ctx context.Context, c *cli, def listing.Definition[T], src listing.Source[T], st listing.State, format string) ([]byte, string, int, error) {
	ctl := listing.New(def, src)
	ctl.Apply(st)
	if err := ctl.Refresh(ctx); err != nil {
		return nil, "", 0, fmt.Errorf("%s: %w", def.Name, err)
	}
	now := c.now()
	filename := ctl.ExportFilename(now)
	rows := len(ctl.Arranged())

	if format == "pdf" {
		headers, cells := ctl.ExportTable()
		out, err := c.docs.ListDocument(ctx, dto.ListDocument{
			Title:       def.Title,
			Filters:     def.Describe(st),
			Headers:     headers,
			Rows:        cells,
			GeneratedAt: now,
		})
		if err != nil {
			return nil, "", 0, fmt.Errorf("pdf: %w", err)
		}
		return out, strings.TrimSuffix(filename, ".csv") + ".pdf", rows, nil
	}

	var buf bytes.Buffer
	if err := ctl.ExportCSV(&buf, c.csv); err != nil {
		return nil, "", 0, fmt.Errorf("csv: %w", err)
	}
	return buf.Bytes(), filename, rows, nil
}

// viewRoles roles con acceso a cada vista, para el mensaje de sesión rechazada.
var viewRoles = map[string]string{
	listing.ViewProducts:  "cualquiera",
	listing.ViewOrders:    entity.RoleSeller + " o " + entity.RoleAdmin,
	listing.ViewMyOrders:  entity.RoleCustomer,
	listing.ViewInventory: entity.RoleSeller,
	listing.ViewRestocks:  entity.RoleSeller + " o " + entity.RoleAdmin,
	listing.ViewSellers:   entity.RoleAdmin,
}
