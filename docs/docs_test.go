package docs_test

import (
	"testing"

	"deployment-tracker/docs"
	"deployment-tracker/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerHostMatchesDefaultPort(t *testing.T) {
	viper.Reset()
	t.Setenv("PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "localhost:"+cfg.Port, docs.SwaggerInfo.Host)
}
