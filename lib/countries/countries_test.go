package countries

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	name, err := Name("DEU")
	require.NoError(t, err)
	require.Equal(t, "Germany", name)

	name, err = Name("GBR")
	require.NoError(t, err)
	require.Equal(t, "United Kingdom", name)
}

func TestNameUnknownCode(t *testing.T) {
	_, err := Name("XXX")
	require.Error(t, err)

	var unknown UnknownCodeError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "XXX", unknown.Code)
}
