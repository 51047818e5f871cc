package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type testConfig struct {
	Name    string        `envconfig:"NAME" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"5s"`
	Workers int           `envconfig:"WORKERS" default:"2"`
}

type validatedConfig struct {
	Workers int `envconfig:"WORKERS" default:"0"`
}

func (c validatedConfig) Validate() error {
	if c.Workers <= 0 {
		return errors.New("workers must be positive")
	}
	return nil
}

func writeEnvFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("CFGTEST_NAME", "planner")
	t.Setenv("CFGTEST_TIMEOUT", "2m")

	conf, err := New[testConfig]("CFGTEST")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Name != "planner" || conf.Timeout != 2*time.Minute || conf.Workers != 2 {
		t.Fatalf("unexpected config: %+v", conf)
	}
}

func TestNewMissingRequired(t *testing.T) {
	_, err := New[testConfig]("CFGMISSING")
	if err == nil || !strings.Contains(err.Error(), "cfgmissing") {
		t.Fatalf("expected error naming the section, got %v", err)
	}
}

func TestNewRunsValidator(t *testing.T) {
	t.Setenv("CFGVALID_WORKERS", "0")
	if _, err := New[validatedConfig]("CFGVALID"); err == nil {
		t.Fatal("expected validation error")
	}

	t.Setenv("CFGVALID_WORKERS", "3")
	conf, err := New[validatedConfig]("CFGVALID")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Workers != 3 {
		t.Fatalf("workers = %d", conf.Workers)
	}
}

func TestEnvFileDoesNotOverrideEnvironment(t *testing.T) {
	path := writeEnvFile(t, "CFGFILE_NAME=from-file\nCFGFILE_WORKERS=7\n")
	t.Setenv(EnvFileVar, path)
	t.Setenv("CFGFILE_NAME", "from-env")
	t.Cleanup(func() { os.Unsetenv("CFGFILE_WORKERS") })

	conf, err := New[testConfig]("CFGFILE")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Name != "from-env" {
		t.Fatalf("name = %q, want from-env", conf.Name)
	}
	if conf.Workers != 7 {
		t.Fatalf("workers = %d, want 7 from file", conf.Workers)
	}
}

func TestMissingEnvFileFails(t *testing.T) {
	t.Setenv(EnvFileVar, filepath.Join(t.TempDir(), "absent.env"))

	if _, err := New[testConfig]("CFGABSENT"); err == nil {
		t.Fatal("expected error for missing env file")
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustNew() did not panic")
		}
	}()
	MustNew[testConfig]("CFGPANIC")
}
