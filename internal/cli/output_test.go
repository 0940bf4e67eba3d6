package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf, Session: "s-1"}

	require.NoError(t, f.Success(map[string]int{"tiles": 15}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "s-1", resp.Session)
	assert.Nil(t, resp.Error)
	assert.Equal(t, map[string]any{"tiles": float64(15)}, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Error(CodeViewport, "viewport too small", map[string]float64{"height": 3}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Empty(t, resp.Session)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeViewport, resp.Error.Code)
	assert.Equal(t, "viewport too small", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

type renderedStats struct{ tiles int }

func (r renderedStats) RenderText(w io.Writer) {
	fmt.Fprintf(w, "tiles: %d\n", r.tiles)
	fmt.Fprintln(w, "done")
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	tests := []struct {
		name string
		data any
		want string
	}{
		{"plain", "hello", "hello\n"},
		{"renderer", renderedStats{tiles: 21}, "tiles: 21\ndone\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			f := &OutputFormatter{Format: "text", Writer: buf}
			require.NoError(t, f.Success(tt.data))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Error(CodeConfig, "invalid config", "rows_per_viewport"))
	assert.Equal(t, "Error [E_CONFIG]: invalid config\n", buf.String())
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	require.NoError(t, f.Error(CodeConfig, "invalid config", "rows_per_viewport"))
	assert.Contains(t, buf.String(), "Details: rows_per_viewport")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		errW    bool
		wantOut string
		wantErr string
	}{
		{"quiet", false, false, "", ""},
		{"verbose to writer", true, false, "seed 7\n", ""},
		{"verbose to err writer", true, true, "", "seed 7\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
			f := &OutputFormatter{Format: "text", Writer: out, Verbose: tt.verbose}
			if tt.errW {
				f.ErrWriter = errOut
			}
			f.VerboseLog("seed %d", 7)
			assert.Equal(t, tt.wantOut, out.String())
			assert.Equal(t, tt.wantErr, errOut.String())
		})
	}
}

func TestGetErrWriter(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	f := &OutputFormatter{Writer: out}
	assert.Same(t, out, f.GetErrWriter())

	f.ErrWriter = errOut
	assert.Same(t, errOut, f.GetErrWriter())
}

func TestExitError(t *testing.T) {
	base := errors.New("no such file")

	wrapped := WrapExitError(ExitCommandError, "failed to load config", base)
	assert.Equal(t, "failed to load config: no such file", wrapped.Error())
	assert.ErrorIs(t, wrapped, base)
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))

	plain := NewExitError(ExitFailure, "1 scenario(s) failed")
	assert.Equal(t, "1 scenario(s) failed", plain.Error())
	assert.Equal(t, ExitFailure, GetExitCode(fmt.Errorf("outer: %w", plain)))

	assert.Equal(t, ExitFailure, GetExitCode(base))
}
