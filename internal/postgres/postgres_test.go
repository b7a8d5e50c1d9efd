package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigString(t *testing.T) {
	assert.Equal(t, "host=127.0.0.1 port=5432 dbname=postgres sslmode=prefer", Config{}.String())

	conf := Config{Host: "db", Port: "6543", DBName: "sale", SSLMode: "disable", User: "engine", Password: "it's"}
	assert.Equal(t, `host=db port=6543 dbname=sale sslmode=disable user=engine password='it\'s'`, conf.String())

	conf.URL = "postgres://engine@db/sale"
	assert.Equal(t, "postgres://engine@db/sale", conf.String())
}
