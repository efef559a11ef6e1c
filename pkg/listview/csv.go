package listview

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

// CSVColumn columna exportada. Text produce un campo entre comillas dobles;
// Number un campo numérico sin comillas.
type CSVColumn[T any] struct {
	Header string
	Text   func(T) string
	Number func(T) float64
}

// CSVOptions dialecto de exportación.
type CSVOptions struct {
	// EscapeQuotes duplica las comillas internas de los campos de texto
	// (RFC 4180). Desactivado, el texto se envuelve sin escapar, como en la
	// exportación histórica del panel.
	EscapeQuotes bool
}

// WriteCSV escribe la cabecera y una línea por fila, en el orden recibido.
func WriteCSV[T any](w io.Writer, rows []T, columns []CSVColumn[T], opts CSVOptions) error {
	bw := bufio.NewWriter(w)
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Header
	}
	if _, err := bw.WriteString(strings.Join(headers, ",") + "\n"); err != nil {
		return err
	}
	fields := make([]string, len(columns))
	for _, r := range rows {
		for i, c := range columns {
			fields[i] = csvField(c, r, opts)
		}
		if _, err := bw.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func csvField[T any](c CSVColumn[T], row T, opts CSVOptions) string {
	if c.Number != nil {
		return strconv.FormatFloat(c.Number(row), 'f', -1, 64)
	}
	if c.Text == nil {
		return `""`
	}
	s := c.Text(row)
	if opts.EscapeQuotes {
		s = strings.ReplaceAll(s, `"`, `""`)
	}
	return `"` + s + `"`
}

// CSVFilename nombre del archivo exportado con la fecha del día: products_2026-10-15.csv.
func CSVFilename(entity string, now time.Time) string {
	return entity + "_" + now.Format("2006-01-02") + ".csv"
}

// Cells devuelve cabeceras y celdas en texto plano con las mismas columnas del
// CSV; lo usan las exportaciones que no son CSV (PDF).
func Cells[T any](rows []T, columns []CSVColumn[T]) (headers []string, cells [][]string) {
	headers = make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Header
	}
	cells = make([][]string, 0, len(rows))
	for _, r := range rows {
		line := make([]string, len(columns))
		for i, c := range columns {
			switch {
			case c.Number != nil:
				line[i] = strconv.FormatFloat(c.Number(r), 'f', -1, 64)
			case c.Text != nil:
				line[i] = c.Text(r)
			}
		}
		cells = append(cells, line)
	}
	return headers, cells
}
