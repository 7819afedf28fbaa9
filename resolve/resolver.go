// Tset
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package resolve

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/purpleidea/tset/artifact"
	"github.com/purpleidea/tset/prometheus"
	"github.com/purpleidea/tset/util/errwrap"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Resolver computes the inputs of set projections. The direct inputs of each
// (key, projection) pair are computed once and cached, no matter how many sets
// share it. It is safe for concurrent use. Run Init() on it.
type Resolver struct {
	Registry *Registry

	// Workers is the maximum number of projections which are expanded at
	// the same time. It defaults to the number of CPUs.
	Workers int

	// Prometheus collects cache metrics if it is set.
	Prometheus *prometheus.Prometheus

	Debug bool
	Logf  func(format string, v ...interface{})

	flight singleflight.Group
	mutex  *sync.RWMutex
	cache  map[artifact.ProjectionKey][]artifact.Group
}

// Init validates the resolver and gets it ready for use.
func (obj *Resolver) Init() error {
	if obj.Registry == nil {
		return fmt.Errorf("the Registry is missing")
	}
	if obj.Workers <= 0 {
		obj.Workers = runtime.NumCPU()
	}
	if obj.Logf == nil {
		obj.Logf = func(format string, v ...interface{}) {}
	}
	obj.mutex = &sync.RWMutex{}
	obj.cache = make(map[artifact.ProjectionKey][]artifact.Group)
	return nil
}

// SubInputs returns the direct inputs of a projection of a set: the artifacts
// of its own node, and a deferred projection for each child. Concurrent callers
// for the same key share one computation, but each of them only waits for as
// long as its own context allows.
func (obj *Resolver) SubInputs(ctx context.Context, key artifact.ProjectionKey) ([]artifact.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if inputs, exists := obj.cached(key); exists {
		obj.Prometheus.UpdateResolveTotal(true)
		return inputs, nil
	}

	leader := false // set when this caller runs the computation
	ch := obj.flight.DoChan(key.String(), func() (interface{}, error) {
		if inputs, exists := obj.cached(key); exists {
			return inputs, nil // a previous flight just finished
		}
		leader = true
		s, err := obj.Registry.Lookup(key.Key)
		if err != nil {
			return nil, err
		}
		inputs, err := s.ProjectionSubInputs(key.Projection)
		if err != nil {
			return nil, errwrap.Wrapf(err, "could not resolve %s", key)
		}
		obj.mutex.Lock()
		obj.cache[key] = inputs
		obj.mutex.Unlock()
		if obj.Debug {
			obj.Logf("resolved %s into %d inputs", key, len(inputs))
		}
		return inputs, nil
	})

	select {
	case result := <-ch:
		obj.Prometheus.UpdateResolveTotal(!leader)
		if result.Err != nil {
			return nil, result.Err
		}
		return result.Val.([]artifact.Group), nil

	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (obj *Resolver) cached(key artifact.ProjectionKey) ([]artifact.Group, bool) {
	obj.mutex.RLock()
	defer obj.mutex.RUnlock()
	inputs, exists := obj.cache[key]
	return inputs, exists
}

// Artifacts returns every artifact which is needed by a projection of a set, in
// the order they are found by a depth first walk over the deferred inputs. Each
// artifact is only listed once. The projections are expanded in parallel.
func (obj *Resolver) Artifacts(ctx context.Context, key artifact.ProjectionKey) ([]*artifact.Artifact, error) {
	// expand level by level, each level in parallel
	expanded := make(map[artifact.ProjectionKey][]artifact.Group)
	seen := map[artifact.ProjectionKey]struct{}{key: {}}
	frontier := []artifact.ProjectionKey{key}
	for len(frontier) > 0 {
		results := make([][]artifact.Group, len(frontier))
		eg, egctx := errgroup.WithContext(ctx)
		eg.SetLimit(obj.Workers)
		for i, k := range frontier {
			i, k := i, k // per-iteration copies (go 1.21 loop semantics)
			eg.Go(func() error {
				inputs, err := obj.SubInputs(egctx, k)
				if err != nil {
					return err
				}
				results[i] = inputs
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}

		next := []artifact.ProjectionKey{}
		for i, inputs := range results {
			expanded[frontier[i]] = inputs
			for _, g := range inputs {
				p, ok := g.(*artifact.Projection)
				if !ok {
					continue
				}
				if _, exists := seen[p.ProjectionKey]; !exists {
					seen[p.ProjectionKey] = struct{}{}
					next = append(next, p.ProjectionKey)
				}
			}
		}
		frontier = next
	}

	// walk the expansion to get a deterministic order
	visitor := &artifact.SimpleVisitor{}
	visited := map[artifact.ProjectionKey]struct{}{}
	stack := []artifact.ProjectionKey{key}
	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, exists := visited[k]; exists {
			continue
		}
		visited[k] = struct{}{}
		children := []artifact.ProjectionKey{}
		for _, g := range expanded[k] {
			switch x := g.(type) {
			case *artifact.Artifact:
				visitor.VisitArtifact(x)
			case *artifact.Projection:
				children = append(children, x.ProjectionKey)
			}
		}
		for i := len(children) - 1; i >= 0; i-- { // first child on top
			stack = append(stack, children[i])
		}
	}
	return visitor.Artifacts(), nil
}

// Len returns the number of cached projections.
func (obj *Resolver) Len() int {
	obj.mutex.RLock()
	defer obj.mutex.RUnlock()
	return len(obj.cache)
}
