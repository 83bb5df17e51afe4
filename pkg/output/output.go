// Package output renders the module table and module exports for the
// command line.
package output

import (
	"io"
	"reflect"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/modreg/pkg/config"
	"github.com/arthur-debert/modreg/pkg/errors"
	"github.com/arthur-debert/modreg/pkg/module"
)

const (
	headerModule = "MODULE"
	headerDeps   = "DEPENDS ON"
	noDeps       = "-"
	funcValue    = "<func>"
)

// RenderTable writes one line per record, in the order given, with the
// record's dependencies. Styling is applied only when color is set.
func RenderTable(w io.Writer, records []module.Record, color bool) error {
	style := func(s lipgloss.Style, text string) string {
		if !color {
			return text
		}
		return s.Render(text)
	}

	width := len(headerModule)
	for _, rec := range records {
		if len(rec.ID) > width {
			width = len(rec.ID)
		}
	}

	line := func(id, deps string, idStyle, depStyle lipgloss.Style) string {
		pad := strings.Repeat(" ", width-len(id)+2)
		return style(idStyle, id) + pad + style(depStyle, deps) + "\n"
	}

	var b strings.Builder
	b.WriteString(line(headerModule, headerDeps, HeaderStyle, HeaderStyle))
	for _, rec := range records {
		if len(rec.Deps) == 0 {
			b.WriteString(line(rec.ID, noDeps, IDStyle, MutedStyle))
			continue
		}
		b.WriteString(line(rec.ID, strings.Join(rec.Deps, ", "), IDStyle, DepStyle))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// EncodeBundle writes the exports of every module in the bundle, in bundle
// order, using format (config.FormatYAML or config.FormatTOML).
func EncodeBundle(w io.Writer, bundle *module.Bundle, format string) error {
	for i, id := range bundle.IDs() {
		exports, _ := bundle.Get(id)
		if format == config.FormatTOML && i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := EncodeExports(w, id, exports, format); err != nil {
			return err
		}
	}
	return nil
}

// EncodeExports writes exports as a single document keyed by id. Function
// values are written as "<func>".
func EncodeExports(w io.Writer, id string, exports module.Exports, format string) error {
	doc := map[string]interface{}{id: sanitize(exports)}

	switch format {
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.Wrapf(err, errors.ErrInternal, "failed to encode %s as yaml", id)
		}
		return enc.Close()
	case config.FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return errors.Wrapf(err, errors.ErrInternal, "failed to encode %s as toml", id)
		}
		return nil
	}

	return errors.Newf(errors.ErrInvalidInput, "unsupported format %q", format)
}

// sanitize turns exports into plain data the encoders accept.
func sanitize(v interface{}) interface{} {
	switch t := v.(type) {
	case module.Exports:
		return sanitize(map[string]interface{}(t))
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			if val == nil {
				continue
			}
			out[k] = sanitize(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, 0, len(t))
		for _, val := range t {
			out = append(out, sanitize(val))
		}
		return out
	}

	if isFunc(v) {
		return funcValue
	}
	return v
}

func isFunc(v interface{}) bool {
	return reflect.ValueOf(v).Kind() == reflect.Func
}
