package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/hcw-deploy-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "hcw", Password: "secret", Name: "hcw_registry", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=hcw password=secret dbname=hcw_registry sslmode=disable", dsn)
}
