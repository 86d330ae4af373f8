// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/telekom/icmptrace/internal/logger"
	"github.com/telekom/icmptrace/internal/traceroute"
	"gopkg.in/yaml.v3"
)

var _ Loader = (*FileLoader)(nil)

// targetsFile is the layout of the targets file:
//
//	targets:
//	  - 192.0.2.1
//	  - 2001:db8::1
type targetsFile struct {
	Targets []string `yaml:"targets"`
}

// FileLoader reads the targets of the watch mode from a local yaml file.
type FileLoader struct {
	config   FileLoaderConfig
	cTargets chan<- []traceroute.Target
	done     chan struct{}
	fsys     fs.FS
}

func NewFileLoader(cfg *Config, cTargets chan<- []traceroute.Target) *FileLoader {
	return &FileLoader{
		config:   cfg.Watch.File,
		cTargets: cTargets,
		done:     make(chan struct{}, 1),
		fsys:     os.DirFS(filepath.Dir(cfg.Watch.File.Path)),
	}
}

// Run reads the targets from the file and sends them to the targets channel.
// The file will be read periodically defined by the loader interval configuration.
// If the interval is 0, the file is only read once and the loader is disabled.
// A file that cannot be read or contains invalid targets is skipped, the
// previously sent targets stay in place.
func (f *FileLoader) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx)

	targets, err := f.getTargets(ctx)
	if err != nil {
		log.Warn("Could not get targets from file", "error", err)
		err = fmt.Errorf("could not get targets from file: %w", err)
	} else if sErr := f.send(ctx, targets); sErr != nil {
		return sErr
	}

	if f.config.Interval == 0 {
		log.Info("File Loader disabled")
		return err
	}

	tick := time.NewTicker(f.config.Interval)
	defer tick.Stop()

	for {
		select {
		case <-f.done:
			log.Info("File Loader terminated")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			targets, err := f.getTargets(ctx)
			if err != nil {
				log.Warn("Could not get targets from file", "error", err)
				tick.Reset(f.config.Interval)
				continue
			}

			log.Info("Successfully got targets from file", "targets", len(targets))
			if err := f.send(ctx, targets); err != nil {
				return err
			}
			tick.Reset(f.config.Interval)
		}
	}
}

func (f *FileLoader) send(ctx context.Context, targets []traceroute.Target) error {
	select {
	case f.cTargets <- targets:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// getTargets reads and validates the targets from the specified file.
func (f *FileLoader) getTargets(ctx context.Context) (targets []traceroute.Target, err error) {
	log := logger.FromContext(ctx).With("path", f.config.Path)

	file, err := f.fsys.Open(filepath.Base(f.config.Path))
	if err != nil {
		log.Error("Failed to open targets file", "error", err)
		return nil, fmt.Errorf("failed to open targets file: %w", err)
	}
	defer func() {
		cerr := file.Close()
		if cerr != nil {
			log.Error("Failed to close targets file", "error", cerr)
		}
		err = errors.Join(cerr, err)
	}()

	b, err := io.ReadAll(file)
	if err != nil {
		log.Error("Failed to read targets file", "error", err)
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}

	var tf targetsFile
	if err := yaml.Unmarshal(b, &tf); err != nil {
		log.Error("Failed to parse targets file", "error", err)
		return nil, fmt.Errorf("failed to parse targets file: %w", err)
	}

	targets = toTargets(tf.Targets)
	var vErr error
	for _, t := range targets {
		vErr = errors.Join(vErr, t.Validate())
	}
	if vErr != nil {
		log.Error("Targets file contains invalid targets", "error", vErr)
		return nil, fmt.Errorf("invalid targets file: %w", vErr)
	}

	return targets, nil
}

func (f *FileLoader) Shutdown(ctx context.Context) {
	log := logger.FromContext(ctx)
	select {
	case f.done <- struct{}{}:
		log.Debug("Sending signal to shut down file loader")
	default:
	}
}
