package hcl_adapter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/flowgrid/internal/ctxlog"
	"github.com/specialistvlad/flowgrid/internal/fsutil"
	"github.com/specialistvlad/flowgrid/internal/model"
)

// Loader is the HCL-specific implementation of the model.Loader interface.
type Loader struct{}

var _ model.Loader = (*Loader)(nil)

// NewLoader creates a new HCL model loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under the given paths and translates all
// discovered blocks into one Model. Declarations may reference each other
// across files, so translation runs only after every file has been decoded.
// The returned Sources are valid even when err is non-nil, so that callers
// can render diagnostics with source snippets.
func (l *Loader) Load(ctx context.Context, paths ...string) (*model.Model, model.Sources, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	if len(hclFiles) == 0 {
		return nil, nil, fmt.Errorf("no .hcl model files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	var roots []*fileRoot
	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, parser.Files(), fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, parser.Files(), fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		roots = append(roots, &root)
	}

	m, diags := newTranslator(ctx).translate(roots)
	if diags.HasErrors() {
		return nil, parser.Files(), fmt.Errorf("invalid model: %w", diags)
	}

	logger.Debug("HCL loading complete.",
		"types", len(m.Types),
		"implementations", len(m.Implementations),
		"systems", len(m.Systems),
		"connection_instances", len(m.ConnectionInstances),
		"soms", len(m.SystemOperationModes),
	)
	return m, parser.Files(), nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl
// files found. Missing paths are skipped.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		files, err := fsutil.FindFiles(path, ".hcl")
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		for _, f := range files {
			if _, wasSeen := seen[f]; !wasSeen {
				allFiles = append(allFiles, f)
				seen[f] = struct{}{}
			}
		}
	}
	return allFiles, nil
}
