package compiler

import (
	"bytes"
	"testing"

	"nilan/vm"
)

func runProgram(t *testing.T, source string) (string, error) {
	t.Helper()
	ch, errs := Compile(source)
	if errs != nil {
		t.Fatalf("Compile(%q) failed: %v", source, errs)
	}
	var out bytes.Buffer
	machine := vm.New()
	machine.Stdout = &out
	err := machine.Run(ch)
	return out.String(), err
}

func TestScenarioArithmeticPrecedence(t *testing.T) {
	out, err := runProgram(t, "print 1 + 2 * 3;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "7\n" {
		t.Errorf("stdout = %q, want %q", out, "7\n")
	}
}

func TestScenarioStringConcatenation(t *testing.T) {
	out, err := runProgram(t, `var a = "foo"; var b = "bar"; print a + b;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "foobar\n" {
		t.Errorf("stdout = %q, want %q", out, "foobar\n")
	}
}

func TestScenarioWhileLoop(t *testing.T) {
	out, err := runProgram(t, "var n = 0; while (n < 3) { print n; n = n + 1; }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "0\n1\n2\n"
	if out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestScenarioIfElse(t *testing.T) {
	out, err := runProgram(t, `if (true) print "t"; else print "f";`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "t\n" {
		t.Errorf("stdout = %q, want %q", out, "t\n")
	}
}

func TestScenarioGotoLabelLoop(t *testing.T) {
	out, err := runProgram(t, "var i = 0; label top: i = i + 1; if (i < 2) goto top; print i;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "2\n" {
		t.Errorf("stdout = %q, want %q", out, "2\n")
	}
}

func TestScenarioRuntimeTypeError(t *testing.T) {
	_, err := runProgram(t, `print 1 + "x";`)
	if err == nil {
		t.Fatal("expected a runtime error")
	}
}

func TestTernaryExpression(t *testing.T) {
	out, err := runProgram(t, `print true ? "yes" : "no";`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "yes\n" {
		t.Errorf("stdout = %q, want %q", out, "yes\n")
	}
}

func TestShortCircuitAnd(t *testing.T) {
	out, err := runProgram(t, `print false and (1 + "x");`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "false\n" {
		t.Errorf("stdout = %q, want %q (right side must not evaluate)", out, "false\n")
	}
}

func TestShortCircuitOr(t *testing.T) {
	out, err := runProgram(t, `print true or (1 + "x");`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "true\n" {
		t.Errorf("stdout = %q, want %q (right side must not evaluate)", out, "true\n")
	}
}

func TestConstDeclaration(t *testing.T) {
	out, err := runProgram(t, "const x = 42; print x;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "42\n" {
		t.Errorf("stdout = %q, want %q", out, "42\n")
	}
}
