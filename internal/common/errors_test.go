package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaError(t *testing.T) {
	err := NewSchemaError([]string{"date", "amount"}, "invoice/transaction id", "product/item")

	assert.Equal(t, "could not detect invoice/transaction id and product/item columns (found: date, amount)", err.Error())
	assert.Contains(t, err.Hint(), "'invoice_id' and 'product'")
	assert.True(t, errors.Is(err, ErrSchema))

	wrapped := fmt.Errorf("load: %w", err)
	var schemaErr *SchemaError
	require.True(t, errors.As(wrapped, &schemaErr))
	assert.Len(t, schemaErr.Roles, 2)
}

func TestSchemaError_SingleRole(t *testing.T) {
	err := NewSchemaError(nil, "free_text")

	assert.Contains(t, err.Error(), "found: none")
	assert.Contains(t, err.Hint(), "'free_text'")
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want string
	}{
		{
			name: "schema error hint",
			err:  fmt.Errorf("wrapped: %w", NewSchemaError(nil, "free_text")),
			want: "Make sure your file has free_text columns, for example 'free_text'.",
		},
		{
			name: "user error",
			err:  NewUserError("basket is empty", errors.New("boom")),
			want: "basket is empty",
		},
		{
			name: "plain error",
			err:  errors.New("plain"),
			want: "plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
