package boundjson

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/orizon-lang/orizon-lower/internal/bound"
	"github.com/orizon-lang/orizon-lower/internal/constant"
	"github.com/orizon-lang/orizon-lower/internal/corlib"
	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

const program = `{
  "types": [
    {
      "name": "Program",
      "fields": [
        {"name": "count", "type": "int"},
        {"name": "K", "type": "int", "static": true, "badConstant": true},
        {"name": "Max", "type": "long", "static": true, "constant": "9000000000"}
      ],
      "methods": [
        {"name": "Main", "static": true},
        {"name": "M", "static": true, "params": [{"name": "x", "type": "int"}, {"name": "y", "type": "int"}]},
        {"name": "ctor"}
      ],
      "properties": [
        {"name": "Item", "type": "string", "get": true, "set": true, "params": [{"name": "i", "type": "int"}]}
      ]
    },
    {"name": "Color", "kind": "enum"},
    {"name": "Handler", "kind": "delegate", "methods": [{"name": "Invoke"}]}
  ],
  "bodies": [
    {
      "method": "Program.Main",
      "file": "prog.cs",
      "locals": [{"name": "i", "type": "int"}, {"name": "d", "type": "decimal"}, {"name": "grid", "type": "int[,]"}],
      "body": {"kind": "block", "line": 1, "locals": ["i", "d"], "statements": [
        {"kind": "expr", "line": 2, "expression": {"kind": "assign",
          "left": {"kind": "local", "name": "i"},
          "right": {"kind": "literal", "type": "int", "value": 5}}},
        {"kind": "expr", "line": 3, "expression": {"kind": "assign",
          "left": {"kind": "local", "name": "d"},
          "right": {"kind": "literal", "type": "decimal", "value": "1.50"}}},
        {"kind": "while", "line": 4,
          "condition": {"kind": "binary", "type": "bool", "op": "<", "operands": "int",
            "left": {"kind": "local", "name": "i"},
            "right": {"kind": "literal", "type": "int", "value": 10}},
          "body": {"kind": "expr", "expression": {"kind": "increment", "op": "post++", "operands": "int",
            "operand": {"kind": "local", "name": "i"}}}},
        {"kind": "expr", "expression": {"kind": "call", "method": "Program.M",
          "args": [{"kind": "literal", "type": "int", "value": 2}, {"kind": "literal", "type": "int", "value": 1}],
          "names": ["y", "x"], "argsToParams": [1, 0]}}
      ]}
    },
    {
      "name": "Program field initializers",
      "constructors": ["Program.ctor"],
      "initializers": [
        {"kind": "init", "field": "Program.count", "expression": {"kind": "literal", "type": "int", "value": 3}}
      ]
    }
  ]
}`

func decode(t *testing.T, doc string) (*Program, error) {
	t.Helper()
	return Decode(strings.NewReader(doc), corlib.Default())
}

func TestDecodeProgram(t *testing.T) {
	prog, err := decode(t, program)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(prog.Types) != 3 || len(prog.Bodies) != 2 {
		t.Fatalf("got %d types and %d bodies", len(prog.Types), len(prog.Bodies))
	}

	main := prog.Bodies[0]
	if main.Name != "Program.Main" || main.Method == nil || main.Method.Name != "Main" {
		t.Errorf("main body = %+v", main)
	}
	want := strings.Join([]string{
		"{",
		"  locals i int, d decimal",
		"  i = 5;",
		"  d = 1.50m;",
		"  while ((i < 10))",
		"    i++;",
		"  Program.M(y: 2, x: 1);",
		"}",
	}, "\n")
	if got := bound.Print(main.Block); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	span := main.Block.Statements[1].GetSpan()
	if span.Start.Filename != "prog.cs" || span.Start.Line != 3 {
		t.Errorf("statement span = %v", span)
	}
	if s := main.Block.Statements[3].GetSpan(); !s.IsSynthesized() {
		t.Errorf("statement without a line has span %v", s)
	}
	i := main.Block.Locals[0]
	if i.ContainingMethod != main.Method {
		t.Error("local not owned by the body's method")
	}

	inits := prog.Bodies[1]
	if inits.Method != nil || len(inits.Constructors) != 1 || inits.Constructors[0].Kind != symbols.MethodConstructor {
		t.Errorf("initializer body = %+v", inits)
	}
	if got := bound.PrintStatements([]bound.Statement{inits.Initializers[0]}); got != "init Program.count = 3;" {
		t.Errorf("initializer = %s", got)
	}
}

func TestDecodeTypes(t *testing.T) {
	prog, err := decode(t, program)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	programType, color, handler := prog.Types[0], prog.Types[1], prog.Types[2]

	if k := programType.FindField("K").Constant; !k.IsBad() {
		t.Errorf("K constant = %v", k)
	}
	if m := programType.FindField("Max").Constant; m.Kind() != constant.KindInt64 || m.Int64Value() != 9000000000 {
		t.Errorf("Max constant = %v", m)
	}
	if programType.FindField("count").Constant != nil {
		t.Error("non-constant field has a constant")
	}

	item := programType.FindProperty("Item")
	if !item.IsIndexer() || item.Getter == nil || item.Setter == nil {
		t.Fatalf("indexer = %+v", item)
	}
	if n := len(item.Setter.Parameters); n != 2 || item.Setter.Parameters[1].Name != "value" {
		t.Errorf("setter parameters = %v", item.Setter.Parameters)
	}

	if !color.IsEnum() || color.EnumUnderlying.Special != symbols.SpecialInt32 || !color.Sealed {
		t.Errorf("enum = %+v", color)
	}
	if invoke := handler.FindMethod("Invoke", 0); invoke == nil || invoke.Kind != symbols.MethodDelegateInvoke {
		t.Errorf("delegate invoke = %+v", invoke)
	}
	if handler.BaseType == nil || handler.BaseType.Name != "MulticastDelegate" {
		t.Errorf("delegate base = %v", handler.BaseType)
	}
}

func TestDecodeTypeReferences(t *testing.T) {
	d := &decoder{lib: corlib.Default(), types: map[string]*symbols.TypeSymbol{}}

	tests := []struct {
		ref  string
		want string
		kind symbols.TypeKind
	}{
		{"int[]", "int[]", symbols.TypeKindArray},
		{"string[,]", "string[,]", symbols.TypeKindArray},
		{"int?", "int?", symbols.TypeKindStruct},
		{"byte*", "byte*", symbols.TypeKindPointer},
		{"System.IDisposable", "IDisposable", symbols.TypeKindInterface},
	}

	for _, tt := range tests {
		got := d.resolveType("t", tt.ref)
		if got.Name != tt.want || got.Kind != tt.kind {
			t.Errorf("resolveType(%q) = %s (%v)", tt.ref, got.Name, got.Kind)
		}
	}
	if r := d.resolveType("t", "string[,]"); r.Rank != 2 {
		t.Errorf("rank = %d", r.Rank)
	}
}

func TestDecodeErrors(t *testing.T) {
	const header = `{"types": [{"name": "P", "methods": [{"name": "Main"}, {"name": "M", "params": [{"name": "a", "type": "int"}]}]}], "bodies": [`
	body := func(stmt string) string {
		return header + `{"method": "P.Main", "locals": [{"name": "x", "type": "int"}], "body": {"kind": "block", "statements": [` + stmt + `]}}]}`
	}

	tests := []struct {
		name string
		doc  string
		path string
	}{
		{
			name: "unknown local type",
			doc:  header + `{"method": "P.Main", "locals": [{"name": "x", "type": "Widget"}], "body": {"kind": "block"}}]}`,
			path: "bodies[0].locals[0].type",
		},
		{
			name: "undeclared local",
			doc:  body(`{"kind": "expr", "expression": {"kind": "local", "name": "y"}}`),
			path: "bodies[0].body.statements[0].expression.name",
		},
		{
			name: "unknown statement kind",
			doc:  body(`{"kind": "switch"}`),
			path: "bodies[0].body.statements[0].kind",
		},
		{
			name: "goto without a label",
			doc:  body(`{"kind": "goto"}`),
			path: "bodies[0].body.statements[0].label",
		},
		{
			name: "bad int constant",
			doc:  body(`{"kind": "expr", "expression": {"kind": "literal", "type": "int", "value": "x1"}}`),
			path: "bodies[0].body.statements[0].expression.value",
		},
		{
			name: "int constant out of range",
			doc:  body(`{"kind": "expr", "expression": {"kind": "literal", "type": "byte", "value": 300}}`),
			path: "bodies[0].body.statements[0].expression.value",
		},
		{
			name: "long char constant",
			doc:  body(`{"kind": "expr", "expression": {"kind": "literal", "type": "char", "value": "ab"}}`),
			path: "bodies[0].body.statements[0].expression.value",
		},
		{
			name: "argument names do not match arguments",
			doc:  body(`{"kind": "expr", "expression": {"kind": "call", "method": "P.M", "args": [{"kind": "local", "name": "x"}], "names": ["a", "b"]}}`),
			path: "bodies[0].body.statements[0].expression.names",
		},
		{
			name: "unknown method",
			doc:  header + `{"method": "P.Nope", "body": {"kind": "block"}}]}`,
			path: "bodies[0].method",
		},
		{
			name: "wrong arity",
			doc:  header + `{"method": "P.M/3", "body": {"kind": "block"}}]}`,
			path: "bodies[0].method",
		},
		{
			name: "body without a method",
			doc:  `{"bodies": [{"body": {"kind": "block"}}]}`,
			path: "bodies[0]",
		},
		{
			name: "empty body",
			doc:  `{"bodies": [{"name": "nothing"}]}`,
			path: "bodies[0]",
		},
		{
			name: "duplicate type",
			doc:  `{"types": [{"name": "A"}, {"name": "A"}]}`,
			path: "types[1]",
		},
		{
			name: "unknown type kind",
			doc:  `{"types": [{"name": "A", "kind": "record"}]}`,
			path: "types[0].kind",
		},
		{
			name: "non-block method body",
			doc:  header + `{"method": "P.Main", "body": {"kind": "return"}}]}`,
			path: "bodies[0].body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(t, tt.doc)
			var de *Error
			if !stderrors.As(err, &de) {
				t.Fatalf("expected a decode error, got %v", err)
			}
			if de.Path != tt.path {
				t.Errorf("path = %q, want %q (%v)", de.Path, tt.path, err)
			}
			if !strings.HasPrefix(err.Error(), tt.path+": ") {
				t.Errorf("message %q does not start with the path", err.Error())
			}
		})
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	if _, err := decode(t, `{"typs": []}`); err == nil {
		t.Error("expected an error for an unknown field")
	}
	if _, err := decode(t, `{"bodies": [`); err == nil {
		t.Error("expected an error for truncated input")
	}
}
