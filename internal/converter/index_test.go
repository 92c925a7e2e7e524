package converter

import (
	"testing"

	"fxconvert/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestCurrencyIndex_AssignsInFirstSeenOrder(t *testing.T) {
	x := NewCurrencyIndex()

	require.Equal(t, 1, x.GetOrAssignID("USD"))
	require.Equal(t, 2, x.GetOrAssignID("EUR"))
	require.Equal(t, 1, x.GetOrAssignID("USD"))
	require.Equal(t, 3, x.GetOrAssignID("GBP"))
	require.Equal(t, 3, x.Len())
	require.Equal(t, []string{"EUR", "GBP", "USD"}, x.Codes())
}

func TestCurrencyIndex_Lookup(t *testing.T) {
	x := NewCurrencyIndex()
	x.GetOrAssignID("USD")

	id, err := x.Lookup("USD")
	require.NoError(t, err)
	require.Equal(t, 1, id)
	require.True(t, x.Contains("USD"))

	_, err = x.Lookup("usd")
	require.ErrorIs(t, err, domain.ErrCurrencyNotFound)
	require.False(t, x.Contains("usd"))
}

func TestCurrencyIndex_ClearNeverReusesIDs(t *testing.T) {
	x := NewCurrencyIndex()
	x.GetOrAssignID("USD")
	x.GetOrAssignID("EUR")

	x.Clear()
	require.False(t, x.Contains("USD"))
	require.Zero(t, x.Len())

	require.Equal(t, 3, x.GetOrAssignID("EUR"))
	require.Equal(t, 4, x.GetOrAssignID("USD"))
}
