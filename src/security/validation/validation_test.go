package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanFieldStripsMarkupAndWhitespace(t *testing.T) {
	assert.Equal(t, "Gupta Store", CleanField("  <b>Gupta Store</b>  "))
	assert.Equal(t, "", CleanField("<script>alert(1)</script>"))
	assert.Equal(t, "phone", CleanField("ph\x00one"))
}

func TestValidateStringNotEmpty(t *testing.T) {
	require.NoError(t, ValidateStringNotEmpty("Gupta", "name"))
	require.ErrorIs(t, ValidateStringNotEmpty("   ", "name"), ErrValidationFailed)
}

func TestValidateStringMaxLength(t *testing.T) {
	require.NoError(t, ValidateStringMaxLength("ठीक है", 10, "reply"))
	require.ErrorIs(t, ValidateStringMaxLength(strings.Repeat("x", 11), 10, "reply"), ErrValidationFailed)
}
