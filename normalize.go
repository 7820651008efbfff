package docset

// TypeTable maps a format's raw type labels onto canonical entry types.
type TypeTable map[string]EntryType

// Normalizer converts raw parser entries into index entries using
// per-format type tables. Raw labels without a mapping are dropped by
// the caller, never persisted.
type Normalizer struct {
	tables map[Format]TypeTable
}

// NewNormalizer returns a Normalizer using the given tables. Pass
// DefaultTypeTables for the built-in formats.
func NewNormalizer(tables map[Format]TypeTable) *Normalizer {
	return &Normalizer{tables: tables}
}

// Normalize maps a raw entry onto a canonical index entry. The second
// return value is false when the format or the raw label has no mapping.
func (n *Normalizer) Normalize(format Format, raw RawEntry) (Entry, bool) {
	table, ok := n.tables[format]
	if !ok {
		return Entry{}, false
	}
	typ, ok := table[raw.Type]
	if !ok {
		return Entry{}, false
	}
	return Entry{Name: raw.Name, Type: typ, Path: raw.Path}, true
}

// DefaultTypeTables returns the built-in raw label mappings for the
// supported formats.
func DefaultTypeTables() map[Format]TypeTable {
	return map[Format]TypeTable{
		FormatSphinx: {
			"attribute":    TypeAttribute,
			"builtin":      TypeFunction,
			"class":        TypeClass,
			"classmethod":  TypeMethod,
			"constant":     TypeConstant,
			"data":         TypeValue,
			"doc":          TypeGuide,
			"envvar":       TypeEnvironment,
			"exception":    TypeException,
			"function":     TypeFunction,
			"interface":    TypeInterface,
			"label":        TypeSection,
			"member":       TypeAttribute,
			"method":       TypeMethod,
			"module":       TypeModule,
			"opcode":       TypeOperator,
			"property":     TypeProperty,
			"staticmethod": TypeMethod,
			"type":         TypeType,
			"variable":     TypeVariable,
		},
		FormatPyDoctor: {
			"attribute":   TypeAttribute,
			"class":       TypeClass,
			"constructor": TypeConstructor,
			"function":    TypeFunction,
			"method":      TypeMethod,
			"module":      TypeModule,
			"package":     TypePackage,
		},
	}
}
