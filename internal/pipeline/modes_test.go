package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLoadMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    LoadMethod
		wantErr bool
	}{
		{in: "insert", want: LoadInsert},
		{in: "upsert", want: LoadUpsert},
		{in: "overwrite", want: LoadOverwrite},
		{in: "merge", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLoadMethod(tt.in)
			if tt.wantErr {
				var cfgErr *ConfigError
				require.ErrorAs(t, err, &cfgErr)
				assert.Equal(t, "load_method", cfgErr.Key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestParseExtractMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ExtractMode
		wantErr bool
	}{
		{in: "full", want: ExtractFull},
		{in: "incremental", want: ExtractIncremental},
		{in: "delta", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseExtractMode(tt.in)
			if tt.wantErr {
				var cfgErr *ConfigError
				require.ErrorAs(t, err, &cfgErr)
				assert.Equal(t, "extract.mode", cfgErr.Key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}
