package iojson

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Text string `json:"text"`
}

func TestFileReader_ReadAll(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []entry
		wantErr bool
	}{
		{name: "array", input: ` [{"text":"a"},{"text":"b"}]`, want: []entry{{"a"}, {"b"}}},
		{name: "lines", input: "{\"text\":\"a\"}\n{\"text\":\"b\"}\n", want: []entry{{"a"}, {"b"}}},
		{name: "empty", input: "\n  \n", want: nil},
		{name: "broken line", input: "{\"text\":\"a\"}\n{\"text\":", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fr := &FileReader[entry]{stdin: strings.NewReader(tt.input)}
			got, err := fr.ReadAll()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileReader_ReadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"text":"from file"}`), 0o644))

	fr := &FileReader[entry]{fileFlagValue: path}
	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, "from file", got.Text)

	fr = &FileReader[entry]{fileFlagValue: filepath.Join(t.TempDir(), "missing.json")}
	_, err = fr.Read()
	require.Error(t, err)
}

func TestWriteLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLine(&buf, entry{Text: "a"}))
	require.NoError(t, WriteLine(&buf, entry{Text: "b"}))
	assert.Equal(t, "{\"text\":\"a\"}\n{\"text\":\"b\"}\n", buf.String())

	err := WriteLine(&buf, map[string]any{"bad": make(chan int)})
	require.Error(t, err)
}
