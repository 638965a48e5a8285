package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNow_MatchesTimestamptzPrecision(t *testing.T) {
	now := Now()

	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond()%int(time.Microsecond))
	assert.True(t, now.Equal(now.Truncate(time.Microsecond)))
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "products", SSLMode: "disable"}

	assert.Contains(t, cfg.DSN(), "host=db")
	assert.Contains(t, cfg.DSN(), "dbname=products")
	assert.Contains(t, cfg.DSN(), "sslmode=disable")
}
