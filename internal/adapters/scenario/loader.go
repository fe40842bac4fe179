package scenario

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/trebuchet-org/proxyforge/internal/domain"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
	"gopkg.in/yaml.v3"
)

// Dir is where List looks for scenarios, relative to the project root
const Dir = "scenarios"

// LoaderAdapter reads scenario files written in YAML
type LoaderAdapter struct {
	projectRoot string
}

// NewLoaderAdapter creates a loader resolving relative paths against the
// project root
func NewLoaderAdapter(projectRoot string) *LoaderAdapter {
	return &LoaderAdapter{projectRoot: projectRoot}
}

// Load reads and validates a scenario
func (l *LoaderAdapter) Load(ctx context.Context, path string) (*domain.Scenario, error) {
	if !filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil && l.projectRoot != "" {
			path = filepath.Join(l.projectRoot, path)
		}
	}

	data, err := os.ReadFile(path) //nolint:gosec // user-supplied scenario path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("scenario %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	scenario, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if scenario.Name == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

// List returns the .yaml and .yml files under the scenarios directory,
// relative to the project root and sorted. A missing directory lists none.
func (l *LoaderAdapter) List(ctx context.Context) ([]string, error) {
	root := filepath.Join(l.projectRoot, Dir)
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == root {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			rel, err := filepath.Rel(l.projectRoot, path)
			if err != nil {
				return err
			}
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Parse decodes and validates scenario YAML. Unknown keys are rejected.
func Parse(data []byte) (*domain.Scenario, error) {
	var scenario domain.Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validate(&scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func validate(s *domain.Scenario) error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("no steps")
	}
	for i, step := range s.Steps {
		where := fmt.Sprintf("step %d", i+1)
		switch step.Action {
		case domain.ActionDeploy:
			if step.Implementation == "" {
				return fmt.Errorf("%s: deploy needs an implementation", where)
			}
		case domain.ActionUpgrade:
			if step.Proxy == "" || step.Implementation == "" {
				return fmt.Errorf("%s: upgrade needs a proxy and an implementation", where)
			}
		case domain.ActionChangeOwner:
			if step.Proxy == "" || step.Owner == "" {
				return fmt.Errorf("%s: change_owner needs a proxy and an owner", where)
			}
		case domain.ActionCall:
			if step.Call == nil || (step.To == "" && step.Proxy == "") {
				return fmt.Errorf("%s: call needs a call and a target (to or proxy)", where)
			}
		default:
			return fmt.Errorf("%s: unknown action %q", where, step.Action)
		}
		if step.Save != "" && step.Action != domain.ActionDeploy {
			return fmt.Errorf("%s: only deploy steps can save", where)
		}
		if len(step.Expect) > 0 && len(step.Expect) != len(step.Returns) {
			return fmt.Errorf("%s: expect needs one value per returns type", where)
		}
	}
	return nil
}

var _ usecase.ScenarioLoader = (*LoaderAdapter)(nil)
