package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader_ReadLine(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		input   string
		want    string
	}{
		{name: "answer", input: "y\n", want: "y"},
		{name: "padded with carriage return", input: "  yes \r\n", want: "yes"},
		{name: "blank line", input: "\n", want: ""},
		{name: "last line without newline", input: "n", want: "n"},
		{name: "end of input", input: "", wantErr: io.EOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewLineReader(strings.NewReader(tt.input))

			got, err := r.ReadLine(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLineReader_Cancelled(t *testing.T) {
	t.Run("before reading", func(t *testing.T) {
		r := NewLineReader(strings.NewReader("y\n"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := r.ReadLine(ctx)
		assert.ErrorIs(t, err, ErrInputCancelled)

		// Nothing was consumed.
		got, err := r.ReadLine(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "y", got)
	})

	t.Run("while waiting for an answer", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer func() { _ = pw.Close() }()

		r := NewLineReader(pr)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := r.ReadLine(ctx)
		assert.ErrorIs(t, err, ErrInputCancelled)
	})
}

func TestConfirmer_AnswersInOrder(t *testing.T) {
	var out bytes.Buffer
	c := NewConfirmer(strings.NewReader("y\n\nSIM\nn"), &out)

	prompts := []string{
		`Delete task "Water plants"?`,
		`Delete goal "Trip"?`,
		`Delete plan "Leg Day"?`,
		`Delete account "Nubank"?`,
	}
	var answers []bool
	for _, p := range prompts {
		ok, err := c.Confirm(context.Background(), p)
		require.NoError(t, err)
		answers = append(answers, ok)
	}
	assert.Equal(t, []bool{true, false, true, false}, answers)

	ok, err := c.Confirm(context.Background(), "Delete log?")
	require.NoError(t, err)
	assert.False(t, ok, "exhausted input answers no")

	assert.Equal(t, 5, strings.Count(out.String(), "[y/N]"))
}
