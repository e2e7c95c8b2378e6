// Copyright (C) 2025 The go-poolvote Authors
// This file is part of go-poolvote
//
// go-poolvote is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-poolvote is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-poolvote.  If not, see <https://www.gnu.org/licenses/>.

package metrics

import (
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/algorand/go-deadlock"
)

// TagCounter holds a set of counters, one per tag
type TagCounter struct {
	Name        string
	Description string

	// a read only race-free reference to tags
	tagptr atomic.Value

	tags    map[string]*atomic.Uint64
	tagLock deadlock.Mutex
}

// NewTagCounter makes a set of metrics under rootName for tagged counting,
// registered with the default registry.
// "{TAG}" in rootName is replaced by the tag, otherwise "_{TAG}" is appended.
// Declared tags are reported as zero before they are first incremented.
func NewTagCounter(rootName, desc string, declaredTags ...string) *TagCounter {
	tc := NewTagCounterUnregistered(rootName, desc, declaredTags...)
	DefaultRegistry().Register(tc)
	return tc
}

// NewTagCounterUnregistered makes a TagCounter that is not added to any registry.
func NewTagCounterUnregistered(rootName, desc string, declaredTags ...string) *TagCounter {
	tc := &TagCounter{Name: rootName, Description: desc}
	tc.tagptr.Store(map[string]*atomic.Uint64{})
	for _, tag := range declaredTags {
		tc.Add(tag, 0)
	}
	return tc
}

// Add t[tag] += val, fast and multithread safe
func (tc *TagCounter) Add(tag string, val uint64) {
	tags := tc.tagptr.Load().(map[string]*atomic.Uint64)
	if count, ok := tags[tag]; ok {
		count.Add(val)
		return
	}

	tc.tagLock.Lock()
	defer tc.tagLock.Unlock()
	count, ok := tc.tags[tag]
	if !ok {
		// Make a new map so there's never any race.
		newtags := make(map[string]*atomic.Uint64, len(tc.tags)+1)
		for k, v := range tc.tags {
			newtags[k] = v
		}
		count = new(atomic.Uint64)
		newtags[tag] = count
		tc.tags = newtags
		tc.tagptr.Store(newtags)
	}
	count.Add(val)
}

// GetValue returns the current count for tag.
func (tc *TagCounter) GetValue(tag string) uint64 {
	tags := tc.tagptr.Load().(map[string]*atomic.Uint64)
	if count, ok := tags[tag]; ok {
		return count.Load()
	}
	return 0
}

func (tc *TagCounter) metricName(tag string) string {
	if strings.Contains(tc.Name, "{TAG}") {
		return sanitizePrometheusName(strings.ReplaceAll(tc.Name, "{TAG}", tag))
	}
	return sanitizePrometheusName(tc.Name + "_" + tag)
}

// WriteMetric is part of the Metric interface
func (tc *TagCounter) WriteMetric(buf *strings.Builder, parentLabels string) {
	tags := tc.tagptr.Load().(map[string]*atomic.Uint64)
	names := make([]string, 0, len(tags))
	for tag := range tags {
		names = append(names, tag)
	}
	sort.Strings(names)

	buf.WriteString("# ")
	buf.WriteString(tc.Name)
	buf.WriteString(" ")
	buf.WriteString(tc.Description)
	buf.WriteString("\n")
	for _, tag := range names {
		buf.WriteString(tc.metricName(tag))
		if len(parentLabels) > 0 {
			buf.WriteString("{" + parentLabels + "}")
		}
		buf.WriteRune(' ')
		buf.WriteString(strconv.FormatUint(tags[tag].Load(), 10))
		buf.WriteRune('\n')
	}
}

// AddMetric is part of the Metric interface
// Copy the values in this TagCounter out into the values map.
func (tc *TagCounter) AddMetric(values map[string]float64) {
	tags := tc.tagptr.Load().(map[string]*atomic.Uint64)
	for tag, count := range tags {
		values[tc.metricName(tag)] = float64(count.Load())
	}
}
