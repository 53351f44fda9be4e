/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package fixtures loads scenario collections and canned agent responses.
//
// A fixture tree has two directories:
//
//	scenarios/<collection_id>.json   one ScenarioCollection per file
//	responses/<scenario_id>.json     one AgentOutput per file
//
// The built-in tree is embedded in the binary; LoadDir reads the same layout
// from disk.
package fixtures

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path"
	"slices"
	"strings"

	"chainguard.dev/intakeevals/intake"
)

//go:embed data
var embedded embed.FS

var (
	// ErrUnknownCollection is returned when a collection id is not in the catalog.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrUnknownScenario is returned when a scenario id is not in the catalog.
	ErrUnknownScenario = errors.New("unknown scenario")
)

// Catalog indexes scenario collections and canned responses. It is read-only
// once loaded; callers must not modify the values it returns.
type Catalog struct {
	collections []*intake.ScenarioCollection
	byID        map[string]*intake.ScenarioCollection
	scenarios   map[string]*intake.Scenario
	responses   map[string]*intake.AgentOutput
}

// Default loads the embedded fixtures.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded fixtures: %w", err)
	}
	return Load(sub)
}

// LoadDir loads fixtures from a directory on disk.
func LoadDir(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat fixture directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fixture path %s is not a directory", dir)
	}
	return Load(os.DirFS(dir))
}

// Load reads fixtures from fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{
		byID:      make(map[string]*intake.ScenarioCollection),
		scenarios: make(map[string]*intake.Scenario),
		responses: make(map[string]*intake.AgentOutput),
	}
	if err := c.loadCollections(fsys); err != nil {
		return nil, err
	}
	if err := c.loadResponses(fsys); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) loadCollections(fsys fs.FS) error {
	files, err := fs.Glob(fsys, "scenarios/*.json")
	if err != nil {
		return fmt.Errorf("failed to list scenario files: %w", err)
	}
	if len(files) == 0 {
		return errors.New("no scenario files found under scenarios/")
	}
	slices.Sort(files)

	for _, file := range files {
		var coll intake.ScenarioCollection
		if err := decodeFile(fsys, file, &coll); err != nil {
			return err
		}
		if stem := fileStem(file); coll.ID != stem {
			return fmt.Errorf("%s: collection_id %q does not match the file name", file, coll.ID)
		}
		if err := coll.Validate(); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		if _, dup := c.byID[coll.ID]; dup {
			return fmt.Errorf("%s: duplicate collection %q", file, coll.ID)
		}
		for i := range coll.Scenarios {
			s := &coll.Scenarios[i]
			if prev, dup := c.scenarios[s.ID]; dup {
				return fmt.Errorf("%s: scenario %q is already defined in collection %q", file, s.ID, prev.Collection)
			}
			c.scenarios[s.ID] = s
		}
		c.byID[coll.ID] = &coll
		c.collections = append(c.collections, &coll)
	}
	return nil
}

func (c *Catalog) loadResponses(fsys fs.FS) error {
	files, err := fs.Glob(fsys, "responses/*.json")
	if err != nil {
		return fmt.Errorf("failed to list response files: %w", err)
	}
	slices.Sort(files)

	for _, file := range files {
		var out intake.AgentOutput
		if err := decodeFile(fsys, file, &out); err != nil {
			return err
		}
		id := fileStem(file)
		switch {
		case out.Transcript == nil:
			return fmt.Errorf("%s: transcript is required", file)
		case out.IntakeRecord == nil:
			return fmt.Errorf("%s: intake_record is required", file)
		case out.ActionLog == nil:
			return fmt.Errorf("%s: action_log is required", file)
		case out.Transcript.ScenarioID != id:
			return fmt.Errorf("%s: transcript scenario_id %q does not match the file name", file, out.Transcript.ScenarioID)
		case out.ActionLog.ScenarioID != id:
			return fmt.Errorf("%s: action_log scenario_id %q does not match the file name", file, out.ActionLog.ScenarioID)
		}
		for i, turn := range out.Transcript.Turns {
			if turn.Number != i+1 {
				return fmt.Errorf("%s: turn %d has turn_number %d", file, i+1, turn.Number)
			}
		}
		c.responses[id] = &out
	}
	return nil
}

func decodeFile(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

func fileStem(name string) string {
	return strings.TrimSuffix(path.Base(name), path.Ext(name))
}

// Collections returns every collection ordered by id.
func (c *Catalog) Collections() []*intake.ScenarioCollection {
	return slices.Clone(c.collections)
}

// Collection returns the collection with the given id.
func (c *Catalog) Collection(id string) (*intake.ScenarioCollection, error) {
	coll, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownCollection, id, slices.Sorted(maps.Keys(c.byID)))
	}
	return coll, nil
}

// Scenarios returns every scenario, by collection id and then in file order.
func (c *Catalog) Scenarios() []*intake.Scenario {
	var out []*intake.Scenario
	for _, coll := range c.collections {
		for i := range coll.Scenarios {
			out = append(out, &coll.Scenarios[i])
		}
	}
	return out
}

// Scenario returns the scenario with the given id from any collection.
func (c *Catalog) Scenario(id string) (*intake.Scenario, error) {
	s, ok := c.scenarios[id]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownScenario, id, slices.Sorted(maps.Keys(c.scenarios)))
	}
	return s, nil
}

// Responses returns the canned agent outputs keyed by scenario id.
func (c *Catalog) Responses() map[string]*intake.AgentOutput {
	return maps.Clone(c.responses)
}
