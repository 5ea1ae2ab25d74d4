package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("PORTAL_TEST_STR", "")
	t.Setenv("PORTAL_TEST_INT", "not-a-number")

	assert.Equal(t, "def", EnvDefault("PORTAL_TEST_STR", "def"))
	assert.Equal(t, 42, EnvIntDefault("PORTAL_TEST_INT", 42))

	t.Setenv("PORTAL_TEST_INT", "9090")
	assert.Equal(t, 9090, EnvIntDefault("PORTAL_TEST_INT", 42))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("ES_INDEX", "")

	cfg := Load()
	assert.Equal(t, "data/portal.db", cfg.DatabaseURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "products", cfg.ESIndex)
}

func TestNonEmpty(t *testing.T) {
	require.NoError(t, NonEmpty(map[string]string{"A": "x"}))
	err := NonEmpty(map[string]string{"JWT_SECRET": ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestNonEmpty_NamesAllMissingSorted(t *testing.T) {
	for range 20 {
		err := NonEmpty(map[string]string{
			"JWT_SECRET":         "",
			"JWT_REFRESH_SECRET": "",
			"DATABASE_URL":       "x",
		})
		require.Error(t, err)
		assert.Equal(t, "missing required env JWT_REFRESH_SECRET, JWT_SECRET", err.Error())
	}
}
