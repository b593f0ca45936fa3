package irgen

import "pyrite/sir"

// annotTypes is the fixed mapping from annotation spellings to IR types.
// Container annotations map to the runtime aggregate that implements them.
var annotTypes = map[string]sir.Type{
	"int":   sir.TypeOf(sir.Int),
	"float": sir.TypeOf(sir.Float),
	"bool":  sir.TypeOf(sir.Bool),
	"str":   sir.TypeOf(sir.String),
	"void":  sir.TypeOf(sir.Void),

	"list[int]":       sir.StructType("vec_int"),
	"list[list[int]]": sir.StructType("vec_vec_int"),
	"list[str]":       sir.StructType("str_array"),
}

// annotToType maps an annotation spelling to its IR type.  Unannotated and
// unrecognized annotations default to void.
func annotToType(annot string) sir.Type {
	if t, ok := annotTypes[annot]; ok {
		return t
	}

	return sir.TypeOf(sir.Void)
}
