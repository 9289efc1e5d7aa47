package excel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrim(t *testing.T) {
	require.Equal(t, "", Trim(""))
	require.Equal(t, "", Trim("   \t\n"))
	require.Equal(t, "10001", Trim(" 10001 "))
	require.Equal(t, "John Doe", Trim("John Doe"))
}

func TestKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Powerbank", "powerbank"},
		{"power bank", "powerbank"},
		{"POWER-BANK", "powerbank"},
		{" Power_Bank 2 ", "powerbank2"},
		{"***", ""},
		{"ÜBER", "ber"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Key(tc.in), "input %q", tc.in)
	}
}

func TestKeyEqualityIsFuzzyEquality(t *testing.T) {
	require.Equal(t, Key("Powerbank"), Key("power bank"))
	require.Equal(t, Key("power bank"), Key("POWER-BANK"))
	require.NotEqual(t, Key("YES"), Key("power-bank"))
}
