package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestRunProgramExecutesAndWrites(t *testing.T) {
	path := writeTempProgram(t, `program p
natural x
begin
x := 2 + 3
write(x)
end`)

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w

	runErr := runProgram(nil, []string{path})

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if runErr != nil {
		t.Fatalf("runProgram failed: %v\noutput: %s", runErr, output)
	}
	if !strings.Contains(output, "5") {
		t.Errorf("expected written value 5 in output, got %q", output)
	}
}

func TestRunProgramReadsFromStdin(t *testing.T) {
	path := writeTempProgram(t, `program p
natural x
begin
read(x)
write(x + 1)
end`)

	oldStdin, oldStdout := os.Stdin, os.Stdout
	inR, inW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	inW.WriteString("41\n")
	inW.Close()
	os.Stdin = inR

	outR, outW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = outW

	runErr := runProgram(nil, []string{path})

	outW.Close()
	os.Stdin, os.Stdout = oldStdin, oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(outR)
	output := buf.String()

	if runErr != nil {
		t.Fatalf("runProgram failed: %v\noutput: %s", runErr, output)
	}
	if !strings.Contains(output, "42") {
		t.Errorf("expected written value 42 in output, got %q", output)
	}
}
