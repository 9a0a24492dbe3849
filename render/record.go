package render

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/Moonlight-Companies/gologger/coloransi"
)

// Cell is one leaf field of a record.
type Cell struct {
	Name  string
	Value string
}

// Flatten lists the exported leaf fields of the struct v in declaration
// order. Nested structs are expanded with a "parent." prefix, embedded ones
// without. Values with a String method are printed through it.
func Flatten(v any) []Cell {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return []Cell{{Name: "value", Value: formatValue(rv)}}
	}
	var cells []Cell
	flattenStruct(rv, "", &cells)
	return cells
}

func flattenStruct(rv reflect.Value, prefix string, cells *[]Cell) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := fieldName(sf)
		if name == "-" {
			continue
		}
		fv := rv.Field(i)

		if fv.Kind() == reflect.Struct && !isStringer(fv) {
			if sf.Anonymous {
				flattenStruct(fv, prefix, cells)
			} else {
				flattenStruct(fv, prefix+name+".", cells)
			}
			continue
		}
		*cells = append(*cells, Cell{Name: prefix + name, Value: formatValue(fv)})
	}
}

func fieldName(sf reflect.StructField) string {
	if tag, ok := sf.Tag.Lookup("json"); ok {
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			return name
		}
	}
	return strings.ToLower(sf.Name)
}

func isStringer(v reflect.Value) bool {
	if !v.IsValid() || !v.CanInterface() {
		return false
	}
	_, ok := v.Interface().(fmt.Stringer)
	return ok
}

func formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	if (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) && v.IsNil() {
		return ""
	}
	if v.CanInterface() {
		if s, ok := v.Interface().(fmt.Stringer); ok {
			return s.String()
		}
	}
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		return formatValue(v.Elem())
	case reflect.Slice, reflect.Array:
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = formatValue(v.Index(i))
		}
		return strings.Join(parts, " ")
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Struct:
		cells := Flatten(v.Interface())
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = c.Name + "=" + c.Value
		}
		return strings.Join(parts, " ")
	}
	return fmt.Sprint(v.Interface())
}

// Options controls table output.
type Options struct {
	Color bool
}

// HeaderFormat returns the header decoration for o, nil when plain.
func (o Options) HeaderFormat() FormatFunc {
	if !o.Color {
		return nil
	}
	return func(s string) string {
		return coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, s)
	}
}

// Record writes one struct as a two column field/value table.
func Record(w io.Writer, v any, o Options) error {
	t := NewTable(Column{Header: "FIELD"}, Column{Header: "VALUE"}).WithHeaderFormat(o.HeaderFormat())
	for _, c := range Flatten(v) {
		t.AddRow(c.Name, c.Value)
	}
	return t.Render(w)
}

// Records writes a slice with one row per element and one column per leaf
// field. Elements of different dynamic types (interface slices) contribute
// the union of their columns in first-seen order.
func Records(w io.Writer, rows any, o Options) error {
	rv := reflect.ValueOf(rows)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("render: Records needs a slice, got %s", rv.Kind())
	}

	var names []string
	index := map[string]int{}
	flat := make([][]Cell, rv.Len())
	for i := range flat {
		flat[i] = Flatten(rv.Index(i).Interface())
		for _, c := range flat[i] {
			if _, ok := index[c.Name]; !ok {
				index[c.Name] = len(names)
				names = append(names, c.Name)
			}
		}
	}

	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i] = Column{Header: strings.ToUpper(n)}
	}
	t := NewTable(cols...).WithHeaderFormat(o.HeaderFormat())
	for _, cells := range flat {
		row := make([]string, len(names))
		for _, c := range cells {
			row[index[c.Name]] = c.Value
		}
		t.AddRow(row...)
	}
	return t.Render(w)
}
