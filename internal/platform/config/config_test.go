package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	kit "leadsdash/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	c := New().Prefix("LEADS_").Prefix("COL_")
	if got := c.key("AGENT"); got != "LEADS_COL_AGENT" {
		t.Fatalf("key() = %q", got)
	}
}

func TestMustValues(t *testing.T) {
	c := New().Prefix("CORE_API_")
	t.Setenv("CORE_API_NAME", "  leadsdash ")
	t.Setenv("CORE_API_WORKERS", "4")
	t.Setenv("CORE_API_PORT", "4000")
	t.Setenv("CORE_API_BADPORT", "70000")

	if got := c.MustString("NAME"); got != "leadsdash" {
		t.Fatalf("MustString = %q", got)
	}
	if got := c.MustInt("WORKERS"); got != 4 {
		t.Fatalf("MustInt = %d", got)
	}
	if got := c.MustPort("PORT"); got != ":4000" {
		t.Fatalf("MustPort = %q", got)
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
	kit.MustPanic(t, func() { _ = c.MustPort("BADPORT") })
}

func TestMayScalars(t *testing.T) {
	c := New().Prefix("T_")
	t.Setenv("T_THRESHOLD", "5")
	t.Setenv("T_BIGINT", "9000000000")
	t.Setenv("T_TARGET", "12.5")
	t.Setenv("T_ON", "true")
	t.Setenv("T_WAIT", "250ms")
	t.Setenv("T_BAD", "nope")

	if c.MayInt("THRESHOLD", 3) != 5 || c.MayInt("BAD", 3) != 3 || c.MayInt("NONE", 3) != 3 {
		t.Fatalf("MayInt mismatch")
	}
	if c.MayInt64("BIGINT", 0) != 9000000000 || c.MayInt64("BAD", 7) != 7 {
		t.Fatalf("MayInt64 mismatch")
	}
	if c.MayFloat64("TARGET", 0) != 12.5 || c.MayFloat64("BAD", 1.5) != 1.5 {
		t.Fatalf("MayFloat64 mismatch")
	}
	if !c.MayBool("ON", false) || c.MayBool("BAD", false) {
		t.Fatalf("MayBool mismatch")
	}
	if c.MayDuration("WAIT", 0) != 250*time.Millisecond || c.MayDuration("BAD", time.Second) != time.Second {
		t.Fatalf("MayDuration mismatch")
	}
	if c.MayString("NONE", "pg") != "pg" {
		t.Fatalf("MayString default mismatch")
	}
}

func TestMayCSVAndMap(t *testing.T) {
	c := New().Prefix("L_")
	t.Setenv("L_ALIASES", " agent_id , ,id_agent ")
	t.Setenv("L_BLANKS", " , , ")
	t.Setenv("L_NAMES", "a1:Ana, b2 : Bruno ,junk,:x")

	got := c.MayCSV("ALIASES", nil)
	if len(got) != 2 || got[0] != "agent_id" || got[1] != "id_agent" {
		t.Fatalf("MayCSV = %v", got)
	}
	if def := c.MayCSV("BLANKS", []string{"d"}); len(def) != 1 || def[0] != "d" {
		t.Fatalf("MayCSV blanks = %v", def)
	}

	m := c.MayMap("NAMES", nil)
	if len(m) != 2 || m["a1"] != "Ana" || m["b2"] != "Bruno" {
		t.Fatalf("MayMap = %v", m)
	}
	if c.MayMap("NONE", nil) != nil {
		t.Fatalf("MayMap default should be nil")
	}
}

func TestMayLocation(t *testing.T) {
	c := New().Prefix("Z_")
	t.Setenv("Z_OK", "UTC")
	t.Setenv("Z_BAD", "Mars/Olympus")

	if got := c.MayLocation("OK", time.Local); got.String() != "UTC" {
		t.Fatalf("MayLocation = %v", got)
	}
	if got := c.MayLocation("BAD", time.UTC); got != time.UTC {
		t.Fatalf("MayLocation fallback = %v", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("E_")
	t.Setenv("E_SOURCE", "CH")
	if got := c.MayEnum("SOURCE", "pg", "pg", "ch"); got != "ch" {
		t.Fatalf("MayEnum = %q", got)
	}
	if got := c.MayEnum("NONE", "pg", "pg", "ch"); got != "pg" {
		t.Fatalf("MayEnum default = %q", got)
	}
	t.Setenv("E_BAD", "mysql")
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "pg", "pg", "ch") })
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "test.env")
	if err := os.WriteFile(f, []byte("DOTENV_FROM_FILE=hello\nDOTENV_PRESET=file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOTENV_PRESET", "env")
	t.Cleanup(func() { _ = os.Unsetenv("DOTENV_FROM_FILE") })

	LoadDotEnv(filepath.Join(dir, "missing.env"), f)

	if got := os.Getenv("DOTENV_FROM_FILE"); got != "hello" {
		t.Fatalf("DOTENV_FROM_FILE = %q", got)
	}
	if got := os.Getenv("DOTENV_PRESET"); got != "env" {
		t.Fatalf("existing env overridden: %q", got)
	}
}
