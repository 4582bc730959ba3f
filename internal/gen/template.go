package gen

import "text/template"

// declTemplate renders one flag type. Every name is precomputed in declData;
// the template only arranges them.
var declTemplate = template.Must(template.New("decl").Option("missingkey=error").Parse(declSource))

const declSource = `
{{- range .Doc}}
//{{if .}} {{.}}{{end}}
{{- end}}
type {{.Type}} struct {
	value {{.Storage}}
}

{{if .Consts -}}
var (
{{- range .Consts}}
	{{- range .Doc}}
	//{{if .}} {{.}}{{end}}
	{{- end}}
	{{.Const}} = {{$.Type}}{value: {{.Literal}}}
{{- end}}
)
{{- end}}

// {{.Ctor}} converts raw into a {{.Type}}. It fails when raw has bits that
// belong to no declared flag{{if .Suppress}} or when raw is zero{{end}}.
func {{.Ctor}}(raw {{.Storage}}) ({{.Type}}, bool) {
{{- if .Wide}}
	if raw[0]&^{{.BoundHi}} != 0 || raw[1]&^{{.BoundLo}} != 0 {
		return {{.Type}}{}, false
	}
{{- else}}
	if raw&^{{.Bound}} != 0 {
		return {{.Type}}{}, false
	}
{{- end}}
{{- if .Suppress}}
	if {{.RawZero}} {
		return {{.Type}}{}, false
	}
{{- end}}
	return {{.Type}}{value: raw}, true
}

// Contains reports whether every bit of mask is set. An empty mask is never
// contained.
func (f {{.Type}}) Contains(mask {{.Type}}) bool {
{{- if .Wide}}
	return f.value[0]&mask.value[0] == mask.value[0] &&
		f.value[1]&mask.value[1] == mask.value[1] &&
		mask.value != {{.Zero}}
{{- else}}
	return f.value&mask.value == mask.value && mask.value != 0
{{- end}}
}

// ContainsOne reports whether at least one bit of mask is set.
func (f {{.Type}}) ContainsOne(mask {{.Type}}) bool {
{{- if .Wide}}
	return f.value[0]&mask.value[0] != 0 || f.value[1]&mask.value[1] != 0
{{- else}}
	return f.value&mask.value != 0
{{- end}}
}

// IsEmpty reports whether no bit is set.
func (f {{.Type}}) IsEmpty() bool {
	return f.value == {{.Zero}}
}

// Clear removes every flag.
func (f *{{.Type}}) Clear() {
	f.value = {{.Zero}}
}

// Remove clears the bits of mask.
func (f *{{.Type}}) Remove(mask {{.Type}}) {
{{- if .Wide}}
	f.value[0] &^= mask.value[0]
	f.value[1] &^= mask.value[1]
{{- else}}
	f.value &^= mask.value
{{- end}}
}

// Set adds the bits of mask.
func (f *{{.Type}}) Set(mask {{.Type}}) {
	f.OrAssign(mask)
}

// Value returns the raw bits.
func (f {{.Type}}) Value() {{.Storage}} {
	return f.value
}

// Or returns the union of f and other.
func (f {{.Type}}) Or(other {{.Type}}) {{.Type}} {
{{- if .Wide}}
	return {{.Type}}{value: {{.Storage}}{f.value[0] | other.value[0], f.value[1] | other.value[1]}}
{{- else}}
	return {{.Type}}{value: f.value | other.value}
{{- end}}
}

// OrAssign adds the bits of other to f.
func (f *{{.Type}}) OrAssign(other {{.Type}}) {
{{- if .Wide}}
	f.value[0] |= other.value[0]
	f.value[1] |= other.value[1]
{{- else}}
	f.value |= other.value
{{- end}}
}

// And returns the intersection of f and other.
func (f {{.Type}}) And(other {{.Type}}) {{.Type}} {
{{- if .Wide}}
	return {{.Type}}{value: {{.Storage}}{f.value[0] & other.value[0], f.value[1] & other.value[1]}}
{{- else}}
	return {{.Type}}{value: f.value & other.value}
{{- end}}
}

// AndAssign keeps only the bits f shares with other.
func (f *{{.Type}}) AndAssign(other {{.Type}}) {
{{- if .Wide}}
	f.value[0] &= other.value[0]
	f.value[1] &= other.value[1]
{{- else}}
	f.value &= other.value
{{- end}}
}

// Equal reports whether f and other hold the same bits.
func (f {{.Type}}) Equal(other {{.Type}}) bool {
	return f.value == other.value
}

// String renders the set flags in ascending value order, e.g.
// {{printf "%q" .Example}}.
func (f {{.Type}}) String() string {
	if f.IsEmpty() {
		return {{printf "%q" .EmptyLabel}}
	}
{{- if .Display}}
	b := make([]byte, 0, {{.BufSize}})
	b = append(b, {{printf "%q" .Prefix}}...)
	first := true
{{- range .Display}}
	if f.Contains({{.Const}}) {
		if !first {
			b = append(b, " | "...)
		}
		first = false
		b = append(b, {{printf "%q" .Name}}...)
	}
{{- end}}
	b = append(b, ')')
	return string(b)
{{- else}}
	return {{printf "%q" .Prefix}} + ")"
{{- end}}
}
`
