// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package registry

// Config tunes one hashTable instance. It mirrors calltr.Config's
// package-level-tunable-struct shape, except it is carried per Registry
// rather than as global mutable state, so independent registries never
// fight over one set of knobs.
type Config struct {
	InitialCapacity int
	MaxProbes       int
	GrowLoadFactor  float64
}

// DefaultConfig returns the tuning observed in the original hash table:
// 1024 slots, 10 probes before a growth check, growth past 70% load.
func DefaultConfig() Config {
	return Config{
		InitialCapacity: initialCapacity,
		MaxProbes:       maxProbes,
		GrowLoadFactor:  growLoadFactor,
	}
}

func (c Config) normalized() Config {
	if c.InitialCapacity <= 0 {
		c.InitialCapacity = initialCapacity
	}
	if c.MaxProbes <= 0 {
		c.MaxProbes = maxProbes
	}
	if c.GrowLoadFactor <= 0 {
		c.GrowLoadFactor = growLoadFactor
	}
	return c
}
