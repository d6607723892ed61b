package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoIAM-Admin/GoIAM-Admin/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.DB = config.DB{
		Host:     "db.example.com",
		Port:     5432,
		User:     "goiam",
		Password: "hunter2",
		Name:     "goiam",
		Extras:   "sslmode=disable",
	}

	return cfg
}

func TestCreateMySQL(t *testing.T) {
	cfg := testConfig()
	cfg.DB.Port = 3306
	cfg.DB.Extras = "parseTime=true"

	got := CreateMySQL(cfg)
	assert.Equal(t, "goiam:hunter2@tcp(db.example.com:3306)/goiam?parseTime=true", got)
}

func TestCreatePostgres(t *testing.T) {
	got := CreatePostgres(testConfig())
	assert.Equal(t, "host=db.example.com user=goiam password=hunter2 dbname=goiam port=5432 sslmode=disable", got)
}
