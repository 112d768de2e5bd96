package execution_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bab4nI/Jaba/internal/config"
	"github.com/Bab4nI/Jaba/internal/execution"
)

func TestResolveLanguage(t *testing.T) {
	languages := config.DefaultLanguages()

	tests := []struct {
		name        string
		languageID  string
		interpreter string
		want        int
		wantErr     bool
	}{
		{name: "default variant", languageID: "python", want: 71},
		{name: "explicit variant", languageID: "python", interpreter: "pypy", want: 99},
		{name: "unknown variant falls back to default", languageID: "python", interpreter: "jython", want: 71},
		{name: "single variant language", languageID: "go", want: 60},
		{name: "compiled language", languageID: "cpp", interpreter: "g++", want: 54},
		{name: "unknown language", languageID: "cobol", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := execution.ResolveLanguage(languages, tt.languageID, tt.interpreter)
			if tt.wantErr {
				var verr execution.ValidationError
				require.ErrorAs(t, err, &verr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
