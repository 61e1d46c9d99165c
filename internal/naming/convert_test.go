package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		input    string
		conv     Convention
		expected string
	}{
		{"FullName", Snake, "full_name"},
		{"OrderID", Snake, "order_id"},
		{"HTTPServer", Snake, "http_server"},
		{"full_name", Snake, "full_name"},
		{"r#type", Snake, "type"},
		{"FullName", ScreamingSnake, "FULL_NAME"},
		{"FullName", Camel, "fullName"},
		{"user_id", Camel, "userId"},
		{"XMLParser", Camel, "xmlParser"},
		{"full_name", Pascal, "FullName"},
		{"OrderID", Pascal, "OrderId"},
		{"a_b_c", Camel, "aBc"},
		{"x_y", Camel, "xY"},
		{"A_B", Pascal, "Ab"},
		{"IsA_B", Pascal, "IsAb"},
		{"IsA_B", Camel, "isAb"},
		{"a_b_2", Pascal, "Ab2"},
		{"FullName", Kebab, "full-name"},
		{"FullName", ScreamingKebab, "FULL-NAME"},
		{"FullName", Lower, "fullname"},
		{"full_name", Lower, "full_name"},
		{"FullName", Upper, "FULLNAME"},
		{"r#match", None, "match"},
		{"", Snake, ""},
	}

	for _, tt := range tests {
		t.Run(tt.conv.String()+"/"+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Convert(tt.input, tt.conv))
		})
	}
}

func TestConvert_Idempotent(t *testing.T) {
	inputs := []string{"FullName", "OrderID", "XMLParser", "getHTTPResponse", "user_id", "Address2Line", "ABcD", "r#type",
		"a_b_c", "A_B", "IsA_B", "x_y", "a_b_c_d", "is_a_b_cd", "a_b_2", "A_B_C"}

	for c := Lower; c <= ScreamingKebab; c++ {
		for _, in := range inputs {
			once := Convert(in, c)
			assert.Equal(t, once, Convert(once, c), "%s applied twice to %q", c, in)
		}
	}
}

func TestWords(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"OrderID", []string{"Order", "ID"}},
		{"customerName", []string{"customer", "Name"}},
		{"XMLParser", []string{"XML", "Parser"}},
		{"getHTTPResponse", []string{"get", "HTTP", "Response"}},
		{"order_id", []string{"order", "id"}},
		{"ALLCAPS", []string{"ALLCAPS"}},
		{"", nil},
		{"a", []string{"a"}},
		{"ABcD", []string{"A", "Bc", "D"}},
		{"order-item ID", []string{"order", "item", "ID"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Words(tt.input))
		})
	}
}

func TestParse(t *testing.T) {
	for _, name := range Names() {
		c, err := Parse(name)
		require.NoError(t, err)
		assert.Equal(t, name, c.String())
	}

	_, err := Parse("snake")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snake_case")
}
