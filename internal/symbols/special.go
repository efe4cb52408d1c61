package symbols

import "strconv"

// SpecialType is a stable key for a runtime library type the compiler
// references directly.
type SpecialType int

const (
	SpecialNone SpecialType = iota
	SpecialObject
	SpecialVoid
	SpecialBoolean
	SpecialChar
	SpecialSByte
	SpecialByte
	SpecialInt16
	SpecialUInt16
	SpecialInt32
	SpecialUInt32
	SpecialInt64
	SpecialUInt64
	SpecialSingle
	SpecialDouble
	SpecialDecimal
	SpecialString
	SpecialIntPtr
	SpecialUIntPtr
	SpecialValueType
	SpecialEnum
	SpecialArray
	SpecialDelegate
	SpecialMulticastDelegate
	SpecialIDisposable
	SpecialIEnumerable
	SpecialIEnumerator

	specialTypeCount
)

var specialTypeNames = [...]string{
	SpecialNone:              "none",
	SpecialObject:            "object",
	SpecialVoid:              "void",
	SpecialBoolean:           "bool",
	SpecialChar:              "char",
	SpecialSByte:             "sbyte",
	SpecialByte:              "byte",
	SpecialInt16:             "short",
	SpecialUInt16:            "ushort",
	SpecialInt32:             "int",
	SpecialUInt32:            "uint",
	SpecialInt64:             "long",
	SpecialUInt64:            "ulong",
	SpecialSingle:            "float",
	SpecialDouble:            "double",
	SpecialDecimal:           "decimal",
	SpecialString:            "string",
	SpecialIntPtr:            "IntPtr",
	SpecialUIntPtr:           "UIntPtr",
	SpecialValueType:         "ValueType",
	SpecialEnum:              "Enum",
	SpecialArray:             "Array",
	SpecialDelegate:          "Delegate",
	SpecialMulticastDelegate: "MulticastDelegate",
	SpecialIDisposable:       "IDisposable",
	SpecialIEnumerable:       "IEnumerable",
	SpecialIEnumerator:       "IEnumerator",
}

func (s SpecialType) String() string {
	if s >= 0 && int(s) < len(specialTypeNames) {
		return specialTypeNames[s]
	}
	return "SpecialType(" + strconv.Itoa(int(s)) + ")"
}

// AllSpecialTypes returns every special type key except SpecialNone.
func AllSpecialTypes() []SpecialType {
	out := make([]SpecialType, 0, specialTypeCount-1)
	for s := SpecialObject; s < specialTypeCount; s++ {
		out = append(out, s)
	}
	return out
}

// SpecialMember is a stable key for a runtime library method the compiler
// references directly. Property getters are keyed by their accessor.
type SpecialMember int

const (
	MemberNone SpecialMember = iota

	StringConcatStringString
	StringConcatObjectObject
	StringOpEquality
	StringOpInequality
	StringGetLength
	StringGetChars

	DelegateCombine
	DelegateRemove
	DelegateOpEquality
	DelegateOpInequality

	DecimalCtor
	DecimalCtorInt32
	DecimalCtorUInt32
	DecimalCtorInt64
	DecimalCtorUInt64
	DecimalCtorInt32Int32Int32BooleanByte

	DecimalOpAddition
	DecimalOpSubtraction
	DecimalOpMultiply
	DecimalOpDivision
	DecimalOpModulus
	DecimalOpUnaryNegation
	DecimalOpEquality
	DecimalOpInequality
	DecimalOpLessThan
	DecimalOpLessThanOrEqual
	DecimalOpGreaterThan
	DecimalOpGreaterThanOrEqual

	DecimalOpImplicitFromSByte
	DecimalOpImplicitFromByte
	DecimalOpImplicitFromInt16
	DecimalOpImplicitFromUInt16
	DecimalOpImplicitFromChar
	DecimalOpImplicitFromInt32
	DecimalOpImplicitFromUInt32
	DecimalOpImplicitFromInt64
	DecimalOpImplicitFromUInt64
	DecimalOpExplicitFromSingle
	DecimalOpExplicitFromDouble

	DecimalOpExplicitToSByte
	DecimalOpExplicitToByte
	DecimalOpExplicitToInt16
	DecimalOpExplicitToUInt16
	DecimalOpExplicitToChar
	DecimalOpExplicitToInt32
	DecimalOpExplicitToUInt32
	DecimalOpExplicitToInt64
	DecimalOpExplicitToUInt64
	DecimalOpExplicitToSingle
	DecimalOpExplicitToDouble

	IDisposableDispose

	specialMemberCount
)

var specialMemberNames = map[SpecialMember]string{
	StringConcatStringString:              "String.Concat(string, string)",
	StringConcatObjectObject:              "String.Concat(object, object)",
	StringOpEquality:                      "String.op_Equality",
	StringOpInequality:                    "String.op_Inequality",
	StringGetLength:                       "String.get_Length",
	StringGetChars:                        "String.get_Chars",
	DelegateCombine:                       "Delegate.Combine",
	DelegateRemove:                        "Delegate.Remove",
	DelegateOpEquality:                    "Delegate.op_Equality",
	DelegateOpInequality:                  "Delegate.op_Inequality",
	DecimalCtor:                           "Decimal..ctor()",
	DecimalCtorInt32:                      "Decimal..ctor(int)",
	DecimalCtorUInt32:                     "Decimal..ctor(uint)",
	DecimalCtorInt64:                      "Decimal..ctor(long)",
	DecimalCtorUInt64:                     "Decimal..ctor(ulong)",
	DecimalCtorInt32Int32Int32BooleanByte: "Decimal..ctor(int, int, int, bool, byte)",
	DecimalOpAddition:                     "Decimal.op_Addition",
	DecimalOpSubtraction:                  "Decimal.op_Subtraction",
	DecimalOpMultiply:                     "Decimal.op_Multiply",
	DecimalOpDivision:                     "Decimal.op_Division",
	DecimalOpModulus:                      "Decimal.op_Modulus",
	DecimalOpUnaryNegation:                "Decimal.op_UnaryNegation",
	DecimalOpEquality:                     "Decimal.op_Equality",
	DecimalOpInequality:                   "Decimal.op_Inequality",
	DecimalOpLessThan:                     "Decimal.op_LessThan",
	DecimalOpLessThanOrEqual:              "Decimal.op_LessThanOrEqual",
	DecimalOpGreaterThan:                  "Decimal.op_GreaterThan",
	DecimalOpGreaterThanOrEqual:           "Decimal.op_GreaterThanOrEqual",
	DecimalOpImplicitFromSByte:            "Decimal.op_Implicit(sbyte)",
	DecimalOpImplicitFromByte:             "Decimal.op_Implicit(byte)",
	DecimalOpImplicitFromInt16:            "Decimal.op_Implicit(short)",
	DecimalOpImplicitFromUInt16:           "Decimal.op_Implicit(ushort)",
	DecimalOpImplicitFromChar:             "Decimal.op_Implicit(char)",
	DecimalOpImplicitFromInt32:            "Decimal.op_Implicit(int)",
	DecimalOpImplicitFromUInt32:           "Decimal.op_Implicit(uint)",
	DecimalOpImplicitFromInt64:            "Decimal.op_Implicit(long)",
	DecimalOpImplicitFromUInt64:           "Decimal.op_Implicit(ulong)",
	DecimalOpExplicitFromSingle:           "Decimal.op_Explicit(float)",
	DecimalOpExplicitFromDouble:           "Decimal.op_Explicit(double)",
	DecimalOpExplicitToSByte:              "Decimal.op_Explicit -> sbyte",
	DecimalOpExplicitToByte:               "Decimal.op_Explicit -> byte",
	DecimalOpExplicitToInt16:              "Decimal.op_Explicit -> short",
	DecimalOpExplicitToUInt16:             "Decimal.op_Explicit -> ushort",
	DecimalOpExplicitToChar:               "Decimal.op_Explicit -> char",
	DecimalOpExplicitToInt32:              "Decimal.op_Explicit -> int",
	DecimalOpExplicitToUInt32:             "Decimal.op_Explicit -> uint",
	DecimalOpExplicitToInt64:              "Decimal.op_Explicit -> long",
	DecimalOpExplicitToUInt64:             "Decimal.op_Explicit -> ulong",
	DecimalOpExplicitToSingle:             "Decimal.op_Explicit -> float",
	DecimalOpExplicitToDouble:             "Decimal.op_Explicit -> double",
	IDisposableDispose:                    "IDisposable.Dispose",
}

func (m SpecialMember) String() string {
	if s, ok := specialMemberNames[m]; ok {
		return s
	}
	return "SpecialMember(" + strconv.Itoa(int(m)) + ")"
}

// AllSpecialMembers returns every special member key except MemberNone.
func AllSpecialMembers() []SpecialMember {
	out := make([]SpecialMember, 0, specialMemberCount-1)
	for m := StringConcatStringString; m < specialMemberCount; m++ {
		out = append(out, m)
	}
	return out
}

// WellKnown resolves runtime library types and members by stable key. It is
// read-only and may be shared by concurrent lowerings. Both methods return nil
// when the library does not provide the requested entity.
type WellKnown interface {
	SpecialType(t SpecialType) *TypeSymbol
	SpecialMember(m SpecialMember) *MethodSymbol
}
