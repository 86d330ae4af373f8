// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/icmptrace/internal/traceroute"
	"github.com/telekom/icmptrace/pkg/config/test"
)

func fileConfig(path string, interval time.Duration) *Config {
	return &Config{Watch: WatchConfig{File: FileLoaderConfig{Path: path, Interval: interval}}}
}

func TestNewFileLoader(t *testing.T) {
	l := NewFileLoader(fileConfig("targets.yaml", 0), make(chan []traceroute.Target, 1))

	assert.Equal(t, "targets.yaml", l.config.Path)
	assert.NotNil(t, l.cTargets, "targets channel")
	assert.NotNil(t, l.fsys, "filesystem")
}

func TestFileLoader_Run(t *testing.T) {
	want := []traceroute.Target{{Address: "192.0.2.1"}, {Address: "2001:db8::1"}}

	tests := []struct {
		name     string
		interval time.Duration
	}{
		{name: "Loads targets from file", interval: time.Second},
		{name: "Continuous loading disabled", interval: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			res := make(chan []traceroute.Target, 1)
			f := NewFileLoader(fileConfig("test/data/targets.yaml", tt.interval), res)

			cErr := make(chan error, 1)
			go func() {
				cErr <- f.Run(ctx)
			}()

			select {
			case got := <-res:
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("targets mismatch (-want +got):\n%s", diff)
				}
			case <-time.After(time.Second):
				t.Fatal("no targets received")
			}

			f.Shutdown(ctx)
			select {
			case err := <-cErr:
				assert.NoError(t, err)
			case <-time.After(2 * time.Second):
				t.Fatal("file loader did not terminate")
			}
		})
	}
}

func TestFileLoader_Run_missingFile(t *testing.T) {
	res := make(chan []traceroute.Target, 1)
	f := NewFileLoader(fileConfig("test/data/nonexistent.yaml", 0), res)

	err := f.Run(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Empty(t, res, "nothing must be sent if the file cannot be read")
}

func TestFileLoader_Run_reload(t *testing.T) {
	var mu sync.Mutex
	content := []byte("targets: [192.0.2.1]")

	res := make(chan []traceroute.Target)
	f := NewFileLoader(fileConfig("targets.yaml", 10*time.Millisecond), res)
	f.fsys = &test.MockFS{
		OpenFunc: func(string) (fs.File, error) {
			mu.Lock()
			defer mu.Unlock()
			return &test.MockFile{Content: content}, nil
		},
	}

	ctx := t.Context()
	go func() {
		_ = f.Run(ctx)
	}()
	defer f.Shutdown(ctx)

	assert.Equal(t, []traceroute.Target{{Address: "192.0.2.1"}}, <-res)

	mu.Lock()
	content = []byte("targets: [198.51.100.7, 2001:db8::2]")
	mu.Unlock()

	want := []traceroute.Target{{Address: "198.51.100.7"}, {Address: "2001:db8::2"}}
	assert.Eventually(t, func() bool {
		return cmp.Equal(want, <-res)
	}, time.Second, time.Millisecond)
}

func TestFileLoader_getTargets(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		mockFS  func(t *testing.T) fs.FS
		want    []traceroute.Target
		wantErr error
	}{
		{
			name: "Valid targets file",
			path: "targets.yaml",
			mockFS: func(_ *testing.T) fs.FS {
				return &test.MockFS{Files: map[string][]byte{
					"targets.yaml": []byte("targets:\n  - 10.0.0.1\n  - ::ffff:10.0.0.2\n"),
				}}
			},
			want: []traceroute.Target{{Address: "10.0.0.1"}, {Address: "::ffff:10.0.0.2"}},
		},
		{
			name: "Empty targets file",
			path: "targets.yaml",
			mockFS: func(_ *testing.T) fs.FS {
				return &test.MockFS{Files: map[string][]byte{"targets.yaml": {}}}
			},
			want: []traceroute.Target{},
		},
		{
			name:    "Invalid File Path",
			path:    "test/data/nonexistent.yaml",
			wantErr: fs.ErrNotExist,
		},
		{
			name: "Malformed targets file",
			path: "test/data/malformed.yaml",
			mockFS: func(_ *testing.T) fs.FS {
				return &test.MockFS{
					OpenFunc: func(name string) (fs.File, error) {
						content := []byte("this is not a valid yaml content")
						return &test.MockFile{Content: content}, nil
					},
				}
			},
			wantErr: errors.New("failed to parse targets file"),
		},
		{
			name: "Hostname instead of an IP literal",
			path: "targets.yaml",
			mockFS: func(_ *testing.T) fs.FS {
				return &test.MockFS{Files: map[string][]byte{
					"targets.yaml": []byte("targets: [example.com, 10.0.0.1]"),
				}}
			},
			wantErr: traceroute.ErrInvalidTarget,
		},
		{
			name: "Failed to close file",
			path: "test/data/valid.yaml",
			mockFS: func(_ *testing.T) fs.FS {
				return &test.MockFS{
					OpenFunc: func(name string) (fs.File, error) {
						return &test.MockFile{
							Content: []byte("targets: [10.0.0.1]"),
							CloseFunc: func() error {
								return fmt.Errorf("failed to close file")
							},
						}, nil
					},
				}
			},
			wantErr: errors.New("failed to close file"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFileLoader(fileConfig(tt.path, time.Second), make(chan []traceroute.Target, 1))
			if tt.mockFS != nil {
				f.fsys = tt.mockFS(t)
			}

			got, err := f.getTargets(t.Context())
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(err, tt.wantErr) {
					return
				}
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("getTargets() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
