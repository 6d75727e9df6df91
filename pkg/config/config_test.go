package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "Rs.", cfg.App.CurrencySymbol)
	assert.Equal(t, 24*60, cfg.JWT.Expiration, "la sesión dura 24h por defecto")
	assert.Equal(t, "session", cfg.Session.CookieName)
	assert.Equal(t, 5, cfg.Storage.MaxUploadMB)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_ValoresComoTexto(t *testing.T) {
	v := viper.New()
	v.Set("DB_PORT", "6543")
	v.Set("SESSION_COOKIE_SECURE", "true")
	v.Set("STORAGE_MAX_UPLOAD_MB", "no-es-numero")

	cfg := fromViper(v)

	assert.Equal(t, 6543, cfg.DB.Port)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Equal(t, 5, cfg.Storage.MaxUploadMB, "un valor inválido cae al default")
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "gastos", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/gastos?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString(), "DATABASE_URL tiene prioridad")
}
