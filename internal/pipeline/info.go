// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/pdiddy/article-extract/pkg/types"
)

// writeInfo writes info to path through a temporary file renamed into
// place, so a reader never sees a partial info.json.
func writeInfo(fs afero.Fs, path string, info types.RunInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling run info: %w", err)
	}

	tmp, err := afero.TempFile(fs, filepath.Dir(path), ".info-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("writing run info: %w", writeErr)
	}
	if closeErr != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// ReadInfo loads the run summary from an output directory. A missing file
// means the run did not finish.
func ReadInfo(fs afero.Fs, outputDir string) (types.RunInfo, error) {
	var info types.RunInfo
	data, err := afero.ReadFile(fs, filepath.Join(outputDir, InfoFile))
	if err != nil {
		return info, err
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("parsing %s: %w", InfoFile, err)
	}
	return info, nil
}
