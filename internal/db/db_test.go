package db

import (
	"strings"
	"testing"

	"github.com/northstar/summit/internal/config"
)

func TestDSN(t *testing.T) {
	got := DSN(config.DBConfig{Host: "127.0.0.1", Port: 3306, Database: "summit"})
	want := "root@tcp(127.0.0.1:3306)/summit?parseTime=true"
	if got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(config.DBConfig{Driver: "postgres"})
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if !strings.Contains(err.Error(), "unknown driver") {
		t.Errorf("error = %q, want mention of unknown driver", err)
	}
}
