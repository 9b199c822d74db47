package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) Amount {
	t.Helper()
	a, err := Parse(s)
	require.NoError(t, err)
	return a
}

func TestAmount_Subunits(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"5", 500},
		{"5.00", 500},
		{"12.5", 1250},
		{"2.345", 235},
		{"0.004", 0},
		{"19.99", 1999},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, mustParse(t, tt.in).Subunits())
		})
	}
}

func TestAmount_Format(t *testing.T) {
	assert.Equal(t, "GHS 5.00", mustParse(t, "5").Format("GHS"))
	assert.Equal(t, "GHS 12.50", FromFloat(12.5).Format("GHS"))
	assert.Equal(t, "GHS 0.00", Amount{}.Format("GHS"))
	assert.Equal(t, "GHS 5.00", FromSubunits(500).Format("GHS"))
}

func TestAmount_Positive(t *testing.T) {
	assert.True(t, mustParse(t, "0.01").Positive())
	assert.False(t, mustParse(t, "0").Positive())
	assert.False(t, mustParse(t, "-3").Positive())
	assert.False(t, Amount{}.Positive())
}

func TestAmount_JSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "number", in: `5.5`, want: "5.50"},
		{name: "string", in: `"10"`, want: "10.00"},
		{name: "null", in: `null`, want: "0.00"},
		{name: "empty string", in: `""`, want: "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			require.NoError(t, json.Unmarshal([]byte(tt.in), &a))
			assert.Equal(t, tt.want, a.String())
		})
	}

	var bad Amount
	require.Error(t, json.Unmarshal([]byte(`"five"`), &bad))

	b, err := json.Marshal(struct {
		Price Amount `json:"price"`
	}{Price: mustParse(t, "5.00")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":5}`, string(b))
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("GHS 5")
	require.Error(t, err)
}
