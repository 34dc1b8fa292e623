package display

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/wd/errors"
)

func testCommand(args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.Flags().Bool("json", false, "")
	cmd.Flags().String("format", "text", "")
	cmd.SetArgs(args)
	_ = cmd.Execute()
	return cmd
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		configured string
		want       string
	}{
		{"configured default", nil, "yaml", "yaml"},
		{"blank configured", nil, "", "text"},
		{"explicit format", []string{"--format", "JSON"}, "text", "json"},
		{"json flag wins", []string{"--json", "--format", "yaml"}, "text", "json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveFormat(testCommand(tt.args...), tt.configured)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ResolveFormat(testCommand("--format", "xml"), "text")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))

	got, err := ResolveFormat(nil, "json")
	require.NoError(t, err)
	assert.Equal(t, "json", got)
}

func TestPrinter(t *testing.T) {
	payload := struct {
		ID    string `json:"id" yaml:"id"`
		Count int    `json:"count" yaml:"count"`
	}{"Q42", 2}

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, "text").Print("Q42: Douglas Adams", payload))
	assert.Equal(t, "Q42: Douglas Adams\n", buf.String())

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, "text").Print("already\n", payload))
	assert.Equal(t, "already\n", buf.String())

	buf.Reset()
	p := NewPrinter(&buf, "json")
	assert.True(t, p.Structured())
	require.NoError(t, p.Print("ignored", payload))
	assert.Equal(t, "{\n  \"id\": \"Q42\",\n  \"count\": 2\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, "yaml").Print("ignored", payload))
	assert.Equal(t, "id: Q42\ncount: 2\n", buf.String())

	assert.False(t, NewPrinter(&buf, "text").Structured())
}
