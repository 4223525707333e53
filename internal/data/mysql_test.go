package data

import (
	"testing"

	"ZevaroCore/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
)

func TestNewMySQLClient_OptionalDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  *conf.Data
	}{
		{"nil config", nil},
		{"no database section", &conf.Data{}},
		{"empty source", &conf.Data{Database: &conf.Database{Driver: "mysql"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, cleanup, err := NewMySQLClient(tt.cfg, log.DefaultLogger)
			assert.NoError(t, err)
			assert.Nil(t, db)
			cleanup()
		})
	}
}

func TestNewMySQLClient_Unreachable(t *testing.T) {
	cfg := &conf.Data{Database: &conf.Database{
		Driver: "mysql",
		Source: "zevaro:secret@tcp(127.0.0.1:1)/zevaro?timeout=200ms",
	}}

	db, _, err := NewMySQLClient(cfg, log.DefaultLogger)
	assert.Error(t, err)
	assert.Nil(t, db)
}
