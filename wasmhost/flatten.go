package wasmhost

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/imath-bind/errors"
)

// FlattenTypes flattens WIT parameter or result types to core wasm types.
func FlattenTypes(types []wit.Type) ([]api.ValueType, error) {
	var out []api.ValueType
	for _, t := range types {
		flat, err := FlattenType(t)
		if err != nil {
			return nil, err
		}
		out = append(out, flat...)
	}
	return out, nil
}

// FlattenType flattens one WIT type. Only the scalar kinds, strings, lists
// and records of those cross the guest boundary.
func FlattenType(t wit.Type) ([]api.ValueType, error) {
	switch v := t.(type) {
	case wit.Bool, wit.U8, wit.U16, wit.U32, wit.S8, wit.S16, wit.S32, wit.Char:
		return []api.ValueType{api.ValueTypeI32}, nil
	case wit.U64, wit.S64:
		return []api.ValueType{api.ValueTypeI64}, nil
	case wit.F32:
		return []api.ValueType{api.ValueTypeF32}, nil
	case wit.F64:
		return []api.ValueType{api.ValueTypeF64}, nil
	case wit.String:
		return []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, nil
	case *wit.TypeDef:
		switch k := v.Kind.(type) {
		case *wit.List:
			return []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, nil
		case *wit.Record:
			var out []api.ValueType
			for _, f := range k.Fields {
				flat, err := FlattenType(f.Type)
				if err != nil {
					return nil, err
				}
				out = append(out, flat...)
			}
			return out, nil
		}
		return nil, errors.Unsupported(errors.PhaseCall, fmt.Sprintf("wit type %T", v.Kind))
	}
	return nil, errors.Unsupported(errors.PhaseCall, fmt.Sprintf("wit type %T", t))
}
