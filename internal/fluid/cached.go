/*
 * Copyright (c) 2023. Anton Starikov -- All Rights Reserved
 *
 * This file is part of SCO2BC project.
 *
 * SCO2BC is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package fluid

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/antst/sco2bc/internal/thermo"
)

type cacheKey struct {
	target thermo.Property
	k1     thermo.Property
	v1     float64
	k2     thermo.Property
	v2     float64
	fluid  string
}

// Cached memoizes successful lookups of another provider in an LRU cache.
// It is safe for concurrent use when the wrapped provider is.
type Cached struct {
	next  thermo.PropertyProvider
	cache *lru.Cache[cacheKey, float64]
}

func NewCached(next thermo.PropertyProvider, size int) (*Cached, error) {
	cache, err := lru.New[cacheKey, float64](size)
	if err != nil {
		return nil, errors.Wrapf(err, "create property cache of size %d", size)
	}
	return &Cached{next: next, cache: cache}, nil
}

func (c *Cached) Lookup(target thermo.Property, k1 thermo.Property, v1 float64, k2 thermo.Property, v2 float64, fluid string) (float64, error) {
	key := cacheKey{target: target, k1: k1, v1: v1, k2: k2, v2: v2, fluid: fluid}
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	v, err := c.next.Lookup(target, k1, v1, k2, v2, fluid)
	if err != nil {
		return v, err
	}
	c.cache.Add(key, v)
	return v, nil
}

// Len is the number of cached lookups.
func (c *Cached) Len() int {
	return c.cache.Len()
}
