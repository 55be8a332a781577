package loader

import (
	"testing"

	"github.com/covinstrument/covinstrument/pkg/ast"
)

func TestDecodeSimpleProgram(t *testing.T) {
	fixture := []byte(`{
		"path": "sample.js",
		"text": "let x = 1;",
		"ast": {
			"type": "Program",
			"start": 0,
			"end": 10,
			"body": [
				{
					"type": "VariableDeclaration",
					"start": 0,
					"end": 10,
					"kind": "let",
					"declarations": [
						{
							"type": "VariableDeclarator",
							"start": 4,
							"end": 9,
							"id": {"type": "Identifier", "start": 4, "end": 5, "name": "x"},
							"init": {"type": "NumericLiteral", "start": 8, "end": 9, "raw": "1"}
						}
					]
				}
			]
		},
		"comments": []
	}`)

	prog, text, err := Decode(fixture)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if string(text) != "let x = 1;" {
		t.Errorf("text = %q, want %q", text, "let x = 1;")
	}
	if len(prog.Body) != 1 {
		t.Fatalf("len(prog.Body) = %d, want 1", len(prog.Body))
	}
	decl, ok := prog.Body[0].(*ast.VarDeclStmt)
	if !ok {
		t.Fatalf("prog.Body[0] = %T, want *ast.VarDeclStmt", prog.Body[0])
	}
	if decl.Kind != "let" || len(decl.Decls) != 1 || decl.Decls[0].Id.Name != "x" {
		t.Errorf("decl = %+v, want kind=let, one declarator named x", decl)
	}
}

func TestDecodeFunctionAndIf(t *testing.T) {
	fixture := []byte(`{
		"path": "sample.js",
		"text": "function f(a, b = 2) { if (a) { return a; } else { return b; } }",
		"ast": {
			"type": "Program",
			"start": 0,
			"end": 66,
			"body": [
				{
					"type": "FunctionDeclaration",
					"start": 0,
					"end": 66,
					"id": {"type": "Identifier", "start": 9, "end": 10, "name": "f"},
					"params": [
						{"type": "Identifier", "start": 11, "end": 12, "name": "a"},
						{
							"type": "AssignmentPattern",
							"start": 14,
							"end": 19,
							"left": {"type": "Identifier", "start": 14, "end": 15, "name": "b"},
							"right": {"type": "NumericLiteral", "start": 18, "end": 19, "raw": "2"}
						}
					],
					"body": {
						"type": "BlockStatement",
						"start": 21,
						"end": 66,
						"body": [
							{
								"type": "IfStatement",
								"start": 23,
								"end": 64,
								"test": {"type": "Identifier", "start": 27, "end": 28, "name": "a"},
								"consequent": {
									"type": "BlockStatement",
									"start": 30,
									"end": 44,
									"body": [
										{
											"type": "ReturnStatement",
											"start": 32,
											"end": 42,
											"argument": {"type": "Identifier", "start": 39, "end": 40, "name": "a"}
										}
									]
								},
								"alternate": {
									"type": "BlockStatement",
									"start": 50,
									"end": 64,
									"body": [
										{
											"type": "ReturnStatement",
											"start": 52,
											"end": 62,
											"argument": {"type": "Identifier", "start": 59, "end": 60, "name": "b"}
										}
									]
								}
							}
						]
					}
				}
			]
		},
		"comments": []
	}`)

	prog, _, err := Decode(fixture)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(prog.Body) != 1 {
		t.Fatalf("len(prog.Body) = %d, want 1", len(prog.Body))
	}
}

func TestDecodeCommentAttachment(t *testing.T) {
	fixture := []byte(`{
		"path": "sample.js",
		"text": "/* istanbul ignore next */\nfunction f() {}\n",
		"ast": {
			"type": "Program",
			"start": 0,
			"end": 44,
			"body": [
				{
					"type": "FunctionDeclaration",
					"start": 28,
					"end": 43,
					"id": {"type": "Identifier", "start": 37, "end": 38, "name": "f"},
					"params": [],
					"body": {"type": "BlockStatement", "start": 41, "end": 43, "body": []}
				}
			]
		},
		"comments": [
			{"text": " istanbul ignore next ", "start": 0, "end": 27, "leading": true}
		]
	}`)

	prog, _, err := Decode(fixture)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	fn := prog.Body[0]
	cs := prog.Comments.Leading(fn)
	if len(cs) != 1 {
		t.Fatalf("len(leading comments) = %d, want 1", len(cs))
	}
}
