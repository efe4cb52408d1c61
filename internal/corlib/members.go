package corlib

import "github.com/orizon-lang/orizon-lower/internal/symbols"

const (
	runtimeV1 = "1.0.0"
	runtimeV2 = "2.0.0"
)

var memberTable = buildMemberTable()

func buildMemberTable() []memberDescriptor {
	const (
		obj  = symbols.SpecialObject
		str  = symbols.SpecialString
		dec  = symbols.SpecialDecimal
		del  = symbols.SpecialDelegate
		b    = symbols.SpecialBoolean
		i32  = symbols.SpecialInt32
		u32  = symbols.SpecialUInt32
		i64  = symbols.SpecialInt64
		u64  = symbols.SpecialUInt64
		void = symbols.SpecialVoid
	)

	table := []memberDescriptor{
		{member: symbols.StringConcatStringString, declaring: str, name: "Concat", static: true, returns: str, params: []symbols.SpecialType{str, str}, introduced: runtimeV1},
		{member: symbols.StringConcatObjectObject, declaring: str, name: "Concat", static: true, returns: str, params: []symbols.SpecialType{obj, obj}, introduced: runtimeV1},
		{member: symbols.StringOpEquality, declaring: str, name: "op_Equality", kind: symbols.MethodUserOperator, static: true, returns: b, params: []symbols.SpecialType{str, str}, introduced: runtimeV1},
		{member: symbols.StringOpInequality, declaring: str, name: "op_Inequality", kind: symbols.MethodUserOperator, static: true, returns: b, params: []symbols.SpecialType{str, str}, introduced: runtimeV1},
		{member: symbols.StringGetLength, declaring: str, name: "get_Length", kind: symbols.MethodPropertyGet, returns: i32, introduced: runtimeV1},
		{member: symbols.StringGetChars, declaring: str, name: "get_Chars", kind: symbols.MethodPropertyGet, returns: symbols.SpecialChar, params: []symbols.SpecialType{i32}, introduced: runtimeV1},

		{member: symbols.DelegateCombine, declaring: del, name: "Combine", static: true, returns: del, params: []symbols.SpecialType{del, del}, introduced: runtimeV1},
		{member: symbols.DelegateRemove, declaring: del, name: "Remove", static: true, returns: del, params: []symbols.SpecialType{del, del}, introduced: runtimeV1},
		{member: symbols.DelegateOpEquality, declaring: del, name: "op_Equality", kind: symbols.MethodUserOperator, static: true, returns: b, params: []symbols.SpecialType{del, del}, introduced: runtimeV2},
		{member: symbols.DelegateOpInequality, declaring: del, name: "op_Inequality", kind: symbols.MethodUserOperator, static: true, returns: b, params: []symbols.SpecialType{del, del}, introduced: runtimeV2},

		{member: symbols.DecimalCtor, declaring: dec, name: ".ctor", kind: symbols.MethodConstructor, returns: void, introduced: runtimeV1},
		{member: symbols.DecimalCtorInt32, declaring: dec, name: ".ctor", kind: symbols.MethodConstructor, returns: void, params: []symbols.SpecialType{i32}, introduced: runtimeV1},
		{member: symbols.DecimalCtorUInt32, declaring: dec, name: ".ctor", kind: symbols.MethodConstructor, returns: void, params: []symbols.SpecialType{u32}, introduced: runtimeV1},
		{member: symbols.DecimalCtorInt64, declaring: dec, name: ".ctor", kind: symbols.MethodConstructor, returns: void, params: []symbols.SpecialType{i64}, introduced: runtimeV1},
		{member: symbols.DecimalCtorUInt64, declaring: dec, name: ".ctor", kind: symbols.MethodConstructor, returns: void, params: []symbols.SpecialType{u64}, introduced: runtimeV1},
		{member: symbols.DecimalCtorInt32Int32Int32BooleanByte, declaring: dec, name: ".ctor", kind: symbols.MethodConstructor, returns: void, params: []symbols.SpecialType{i32, i32, i32, b, symbols.SpecialByte}, introduced: runtimeV1},

		{member: symbols.DecimalOpUnaryNegation, declaring: dec, name: "op_UnaryNegation", kind: symbols.MethodUserOperator, static: true, returns: dec, params: []symbols.SpecialType{dec}, introduced: runtimeV1},

		{member: symbols.IDisposableDispose, declaring: symbols.SpecialIDisposable, name: "Dispose", returns: void, introduced: runtimeV1},
	}

	binary := []struct {
		member  symbols.SpecialMember
		name    string
		returns symbols.SpecialType
	}{
		{symbols.DecimalOpAddition, "op_Addition", dec},
		{symbols.DecimalOpSubtraction, "op_Subtraction", dec},
		{symbols.DecimalOpMultiply, "op_Multiply", dec},
		{symbols.DecimalOpDivision, "op_Division", dec},
		{symbols.DecimalOpModulus, "op_Modulus", dec},
		{symbols.DecimalOpEquality, "op_Equality", b},
		{symbols.DecimalOpInequality, "op_Inequality", b},
		{symbols.DecimalOpLessThan, "op_LessThan", b},
		{symbols.DecimalOpLessThanOrEqual, "op_LessThanOrEqual", b},
		{symbols.DecimalOpGreaterThan, "op_GreaterThan", b},
		{symbols.DecimalOpGreaterThanOrEqual, "op_GreaterThanOrEqual", b},
	}
	for _, op := range binary {
		table = append(table, memberDescriptor{
			member: op.member, declaring: dec, name: op.name, kind: symbols.MethodUserOperator,
			static: true, returns: op.returns, params: []symbols.SpecialType{dec, dec}, introduced: runtimeV1,
		})
	}

	for other, m := range DecimalConversionsFrom {
		name := "op_Implicit"
		if other == symbols.SpecialSingle || other == symbols.SpecialDouble {
			name = "op_Explicit"
		}
		table = append(table, memberDescriptor{
			member: m, declaring: dec, name: name, kind: symbols.MethodConversion,
			static: true, returns: dec, params: []symbols.SpecialType{other}, introduced: runtimeV1,
		})
	}
	for other, m := range DecimalConversionsTo {
		table = append(table, memberDescriptor{
			member: m, declaring: dec, name: "op_Explicit", kind: symbols.MethodConversion,
			static: true, returns: other, params: []symbols.SpecialType{dec}, introduced: runtimeV1,
		})
	}

	return table
}

// DecimalConversionsFrom maps a numeric type to the member converting it to decimal.
var DecimalConversionsFrom = map[symbols.SpecialType]symbols.SpecialMember{
	symbols.SpecialSByte:  symbols.DecimalOpImplicitFromSByte,
	symbols.SpecialByte:   symbols.DecimalOpImplicitFromByte,
	symbols.SpecialInt16:  symbols.DecimalOpImplicitFromInt16,
	symbols.SpecialUInt16: symbols.DecimalOpImplicitFromUInt16,
	symbols.SpecialChar:   symbols.DecimalOpImplicitFromChar,
	symbols.SpecialInt32:  symbols.DecimalOpImplicitFromInt32,
	symbols.SpecialUInt32: symbols.DecimalOpImplicitFromUInt32,
	symbols.SpecialInt64:  symbols.DecimalOpImplicitFromInt64,
	symbols.SpecialUInt64: symbols.DecimalOpImplicitFromUInt64,
	symbols.SpecialSingle: symbols.DecimalOpExplicitFromSingle,
	symbols.SpecialDouble: symbols.DecimalOpExplicitFromDouble,
}

// DecimalConversionsTo maps a numeric type to the member converting decimal to it.
var DecimalConversionsTo = map[symbols.SpecialType]symbols.SpecialMember{
	symbols.SpecialSByte:  symbols.DecimalOpExplicitToSByte,
	symbols.SpecialByte:   symbols.DecimalOpExplicitToByte,
	symbols.SpecialInt16:  symbols.DecimalOpExplicitToInt16,
	symbols.SpecialUInt16: symbols.DecimalOpExplicitToUInt16,
	symbols.SpecialChar:   symbols.DecimalOpExplicitToChar,
	symbols.SpecialInt32:  symbols.DecimalOpExplicitToInt32,
	symbols.SpecialUInt32: symbols.DecimalOpExplicitToUInt32,
	symbols.SpecialInt64:  symbols.DecimalOpExplicitToInt64,
	symbols.SpecialUInt64: symbols.DecimalOpExplicitToUInt64,
	symbols.SpecialSingle: symbols.DecimalOpExplicitToSingle,
	symbols.SpecialDouble: symbols.DecimalOpExplicitToDouble,
}
