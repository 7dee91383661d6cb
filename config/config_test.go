package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, 5432, s.DB.Port)
	assert.Equal(t, time.Hour, s.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, s.JWT.RefreshTTL)
	assert.Equal(t, "secret", Config("JWT_SECRET"))
}

func TestValidate(t *testing.T) {
	base := Settings{
		DB:    DatabaseSettings{Host: "db", Port: 5432},
		Mongo: MongoSettings{URI: "mongodb://db"},
		JWT:   JWTSettings{Secret: "s", AccessTTL: time.Minute, RefreshTTL: time.Hour},
	}
	require.NoError(t, base.Validate())

	noSecret := base
	noSecret.JWT.Secret = ""
	assert.Error(t, noSecret.Validate())

	noHost := base
	noHost.DB.Host = ""
	assert.Error(t, noHost.Validate())

	badTTL := base
	badTTL.JWT.AccessTTL = 0
	assert.Error(t, badTTL.Validate())
}

func TestDSN(t *testing.T) {
	d := DatabaseSettings{Host: "h", Port: 1, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=n sslmode=disable", d.DSN())
}

func TestSMTPEnabled(t *testing.T) {
	assert.False(t, SMTPSettings{}.Enabled())
	assert.True(t, SMTPSettings{Host: "smtp", Port: 587, From: "a@b.c"}.Enabled())
}
