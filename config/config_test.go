package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wippyai/memlayout/endian"
	memerrors "github.com/wippyai/memlayout/errors"
)

func TestLoad_Environment(t *testing.T) {
	tests := []struct {
		value string
		want  endian.Endianness
	}{
		{"", endian.Native},
		{"NATIVE", endian.Native},
		{"LITTLE", endian.Little},
		{"BIG", endian.Big},
		{"NETWORK", endian.Big},
	}
	for _, tc := range tests {
		t.Run("value="+tc.value, func(t *testing.T) {
			t.Setenv("MEMLAYOUT_CONFIG", "")
			t.Setenv("MEMLAYOUT_ENDIANNESS", tc.value)
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.Endianness != tc.want {
				t.Errorf("Endianness = %v, want %v", cfg.Endianness, tc.want)
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	for _, value := range []string{"INVALID", "big", ">"} {
		t.Run(value, func(t *testing.T) {
			t.Setenv("MEMLAYOUT_CONFIG", "")
			t.Setenv("MEMLAYOUT_ENDIANNESS", value)
			_, err := Load()
			if !errors.Is(err, memerrors.ErrInvalidInput) {
				t.Errorf("Load error = %v, want invalid_input", err)
			}
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memlayout.yaml")
	if err := os.WriteFile(path, []byte("endianness: BIG\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("file value", func(t *testing.T) {
		t.Setenv("MEMLAYOUT_CONFIG", path)
		t.Setenv("MEMLAYOUT_ENDIANNESS", "")
		os.Unsetenv("MEMLAYOUT_ENDIANNESS")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Endianness != endian.Big {
			t.Errorf("Endianness = %v, want BIG", cfg.Endianness)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("MEMLAYOUT_CONFIG", path)
		t.Setenv("MEMLAYOUT_ENDIANNESS", "LITTLE")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Endianness != endian.Little {
			t.Errorf("Endianness = %v, want LITTLE", cfg.Endianness)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Setenv("MEMLAYOUT_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
		if _, err := Load(); err == nil {
			t.Error("Load with a missing config file should fail")
		}
	})
}

func TestInitOnce(t *testing.T) {
	reset()
	t.Cleanup(reset)

	if err := Init(Config{Endianness: endian.Big}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := DefaultEndianness(); got != endian.Big {
		t.Errorf("DefaultEndianness = %v, want BIG", got)
	}
	if err := Init(Config{Endianness: endian.Little}); err == nil {
		t.Error("second Init should fail")
	}
	if got := DefaultEndianness(); got != endian.Big {
		t.Errorf("DefaultEndianness changed to %v after rejected Init", got)
	}
}

func TestGet_LoadsOnce(t *testing.T) {
	reset()
	t.Cleanup(reset)

	t.Setenv("MEMLAYOUT_CONFIG", "")
	t.Setenv("MEMLAYOUT_ENDIANNESS", "BIG")
	if got := DefaultEndianness(); got != endian.Big {
		t.Fatalf("DefaultEndianness = %v, want BIG", got)
	}

	t.Setenv("MEMLAYOUT_ENDIANNESS", "LITTLE")
	if got := DefaultEndianness(); got != endian.Big {
		t.Errorf("DefaultEndianness = %v after env change, want BIG", got)
	}
	if err := Init(Config{Endianness: endian.Little}); err == nil {
		t.Error("Init after Get should fail")
	}
}

func TestGet_InvalidFallsBackToNative(t *testing.T) {
	reset()
	t.Cleanup(reset)

	t.Setenv("MEMLAYOUT_CONFIG", "")
	t.Setenv("MEMLAYOUT_ENDIANNESS", "sideways")
	if got := DefaultEndianness(); got != endian.Native {
		t.Errorf("DefaultEndianness = %v, want NATIVE", got)
	}
}
