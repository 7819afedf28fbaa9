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

//go:build !root

package prometheus

import (
	"testing"
)

// TestInitMetrics tests that we are initializing and updating the Prometheus
// metrics correctly.
func TestInitMetrics(t *testing.T) {
	var prom Prometheus
	if err := prom.Init(); err != nil {
		t.Errorf("init error: %+v", err)
		return
	}

	prom.UpdateSetsTotal("Deps", false)
	prom.UpdateSetsTotal("Deps", false)
	prom.UpdateSetsTotal("Deps", true)
	prom.UpdateSetsTotal("Other", false)
	prom.UpdateFrozenTotal(3)
	prom.UpdateResolveTotal(true)
	prom.UpdateResolveTotal(false)
	prom.UpdateResolveTotal(false)

	type test struct { // an individual test
		name   string
		labels map[string]string
		value  float64
	}
	expected := []test{
		{"tset_sets_total", map[string]string{"definition": "Deps", "errorful": "false"}, 2},
		{"tset_sets_total", map[string]string{"errorful": "false"}, 3},
		{"tset_sets_total", nil, 4},
		{"tset_frozen_total", nil, 3},
		{"tset_resolve_total", map[string]string{"cache": "miss"}, 2},
		{"tset_resolve_total", map[string]string{"cache": "hit"}, 1},
	}
	for index, tc := range expected {
		value, err := prom.Value(tc.name, tc.labels)
		if err != nil {
			t.Errorf("test #%d: value error: %+v", index, err)
			continue
		}
		if value != tc.value {
			t.Errorf("test #%d: with: %s, expected %v, got %v", index, tc.name, tc.value, value)
		}
	}

	if v, err := prom.Value("tset_process_start_time_seconds", nil); err != nil || v <= 0 {
		t.Errorf("unexpected start time: %v (%v)", v, err)
	}
	if _, err := prom.Value("tset_nope", nil); err == nil {
		t.Errorf("expected an error for a missing metric")
	}
}

func TestNilMetrics(t *testing.T) {
	var prom *Prometheus
	if err := prom.UpdateSetsTotal("Deps", false); err != nil {
		t.Errorf("unexpected error: %+v", err)
	}
	if err := prom.UpdateFrozenTotal(1); err != nil {
		t.Errorf("unexpected error: %+v", err)
	}
	if err := prom.UpdateResolveTotal(true); err != nil {
		t.Errorf("unexpected error: %+v", err)
	}
}
