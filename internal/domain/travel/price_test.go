package travel

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		display string
		want    string
		wantErr bool
	}{
		{display: "₹12,000", want: "12000"},
		{display: "₹ 1,25,500", want: "125500"},
		{display: "$900", want: "900"},
		{display: "7500", want: "7500"},
		{display: "price on request", wantErr: true},
		{display: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.display, func(t *testing.T) {
			got, err := ParseAmount(tt.display)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestPackageUnitPrice(t *testing.T) {
	p := Package{ID: "goa-4d", DisplayPrice: "₹12,000"}

	got, err := p.UnitPrice()
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(12000)))

	_, err = Package{ID: "tba", DisplayPrice: "TBD"}.UnitPrice()
	require.Error(t, err)
}
