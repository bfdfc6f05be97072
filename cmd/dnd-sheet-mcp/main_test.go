package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// serveEnv makes the test binary act as the server, so an external MCP
// client can drive it over its stdin and stdout.
const serveEnv = "DND_SHEET_MCP_TEST_SERVE"

func TestMain(m *testing.M) {
	if os.Getenv(serveEnv) == "1" {
		os.Args = []string{"dnd-sheet-mcp", "serve", "--log-level", "error"}
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTemplateFieldsFill(t *testing.T) {
	t.Setenv("DND_WATCH_TEMPLATE", "false")
	dir := t.TempDir()
	blank := filepath.Join(dir, "blank.pdf")

	if _, err := run(t, "", "template", "--out", blank); err != nil {
		t.Fatalf("template: %v", err)
	}

	out, err := run(t, "", "fields", blank)
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	if !strings.Contains(out, "CharacterName") || !strings.Contains(out, "Check Box 11") {
		t.Fatalf("unexpected fields listing:\n%s", out)
	}

	data := filepath.Join(dir, "fighter.json")
	character := `{"character":{"name":"Test","class":"Fighter","level":1,"race":"Human"},` +
		`"abilities":{"strength":15,"dexterity":14,"constitution":13,"intelligence":12,"wisdom":10,"charisma":8}}`
	if err := os.WriteFile(data, []byte(character), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "", "fill", "--template", blank, "--output-dir", dir, "--data", data, "--out", "filled.pdf")
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if strings.TrimSpace(out) != `{"output_path":"filled.pdf"}` {
		t.Fatalf("unexpected fill output %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "filled.pdf")); err != nil {
		t.Fatalf("expected filled.pdf: %v", err)
	}

	if _, err := run(t, "", "template", "--out", filepath.Join(dir, "blank.txt")); err == nil {
		t.Fatalf("expected an error for a non-PDF output path")
	}
}

func TestServeOverStdio(t *testing.T) {
	t.Setenv("DND_WATCH_TEMPLATE", "false")
	in := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","clientInfo":{"name":"t","version":"1"}}}` + "\n" +
		`{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n"

	out, err := run(t, in, "serve", "--log-level", "error")
	if err != nil {
		t.Fatalf("serve: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 responses, got %q", out)
	}

	var init struct {
		Result struct {
			ProtocolVersion string `json:"protocolVersion"`
			ServerInfo      struct {
				Name string `json:"name"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &init); err != nil {
		t.Fatalf("decode initialize: %v", err)
	}
	if init.Result.ServerInfo.Name != serverName || init.Result.ProtocolVersion != "2024-11-05" {
		t.Fatalf("unexpected initialize result %s", lines[0])
	}
	if !strings.Contains(lines[1], `"fill_dnd_character_sheet"`) {
		t.Fatalf("unexpected tools/list result %s", lines[1])
	}
}

func TestSetupRejectsBadLevel(t *testing.T) {
	if _, err := run(t, "", "serve", "--log-level", "chatty"); err == nil {
		t.Fatalf("expected an error for an unknown log level")
	}
}

func TestSDKClientInterop(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.Command(os.Args[0], "-test.run=^$")
	cmd.Env = append(os.Environ(), serveEnv+"=1", "DND_WATCH_TEMPLATE=false")
	cmd.Dir = t.TempDir()

	client := sdk.NewClient(&sdk.Implementation{Name: "interop", Version: "0.0.0"}, &sdk.ClientOptions{})
	cs, err := client.Connect(ctx, &sdk.CommandTransport{Command: cmd}, &sdk.ClientSessionOptions{})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer cs.Close()

	lt, err := cs.ListTools(ctx, &sdk.ListToolsParams{})
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	if len(lt.Tools) != 1 || lt.Tools[0].Name != "fill_dnd_character_sheet" {
		t.Fatalf("unexpected tools %+v", lt.Tools)
	}
	if lt.Tools[0].InputSchema == nil {
		t.Fatalf("expected an input schema")
	}
}
