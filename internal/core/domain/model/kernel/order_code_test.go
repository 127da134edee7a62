package kernel_test

import (
	"strings"
	"testing"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderCode(t *testing.T) {
	t.Run("generated_code_is_valid", func(t *testing.T) {
		code := kernel.NewOrderCode()

		require.NoError(t, code.Validate())
		assert.True(t, strings.HasPrefix(code.String(), "MOV-"))
		assert.Len(t, code.String(), len("MOV-")+4)
	})

	t.Run("uses_only_unambiguous_characters", func(t *testing.T) {
		for range 200 {
			code := kernel.NewOrderCode()
			suffix := strings.TrimPrefix(code.String(), "MOV-")
			assert.NotContainsf(t, "0O1IL", suffix[:1], "code %s", code)
			for _, r := range suffix {
				assert.NotContains(t, "0O1IL", string(r))
			}
		}
	})
}

func TestOrderCodeFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid_code", input: "MOV-7KQ2", wantErr: false},
		{name: "missing_prefix", input: "ABC-7KQ2", wantErr: true},
		{name: "too_short", input: "MOV-7K", wantErr: true},
		{name: "too_long", input: "MOV-7KQ2X", wantErr: true},
		{name: "ambiguous_character", input: "MOV-7KO2", wantErr: true},
		{name: "lowercase", input: "MOV-7kq2", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := kernel.OrderCodeFromString(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.input, code.String())
		})
	}
}

func TestOrderCode_Validate_ZeroValue(t *testing.T) {
	var code kernel.OrderCode

	require.Error(t, code.Validate())
}

func TestOrderCode_IsEqual(t *testing.T) {
	a, err := kernel.OrderCodeFromString("MOV-7KQ2")
	require.NoError(t, err)
	b, err := kernel.OrderCodeFromString("MOV-7KQ2")
	require.NoError(t, err)
	c := kernel.NewOrderCode()

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
}
