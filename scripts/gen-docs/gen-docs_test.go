// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunGenDocs(t *testing.T) {
	tests := []struct {
		format    string
		wantFiles []string
		wantErr   bool
	}{
		{format: "markdown", wantFiles: []string{"icmptrace.md", "icmptrace_watch.md"}},
		{format: "man", wantFiles: []string{"icmptrace.1", "icmptrace-watch.1"}},
		{format: "html", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "docs")
			format := tt.format

			err := runGenDocs(&dir, &format)(nil, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, f := range tt.wantFiles {
				_, err := os.Stat(filepath.Join(dir, f))
				assert.NoError(t, err, "file %s", f)
			}
		})
	}
}
