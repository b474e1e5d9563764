// Copyright 2026 The Skiff Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package match implements pure URL pattern matching with named parameter
// extraction. It has no state and no dependency on the rest of the module.
//
// A pattern is a path template such as "/user/:id/:tx". Segments starting
// with ':' capture exactly one path segment each. A trailing "*" segment
// matches the remainder of the path (at least one segment). Patterns are
// segment-count exact otherwise: "/user/:id" never matches "/user" or
// "/user/42/extra".
package match

import (
	"regexp"
	"strings"
)

// Param is a single captured parameter. Capture order follows the
// left-to-right declaration order in the pattern.
type Param struct {
	Name  string
	Value string
}

// Pattern is a compiled URL pattern ready for repeated matching.
// Compile once at registration time; Match is safe for concurrent use.
type Pattern struct {
	raw      string
	names    []string
	re       *regexp.Regexp
	segments int
	wildcard bool
}

// paramSegment recognizes a named parameter segment such as ":id".
var paramSegment = regexp.MustCompile(`^:\w+$`)

// Split breaks a path or pattern into its segments, discarding empty ones so
// that repeated and trailing slashes normalize away: "/a//b/" → ["a" "b"].
func Split(path string) []string {
	parts := strings.Split(path, "/")
	segments := parts[:0]
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// Compile translates a pattern into its anchored regular expression form:
// ":name" segments become "([^/]+)" capture groups and a trailing "*"
// becomes ".*". Literal segments are quoted verbatim.
func Compile(pattern string) *Pattern {
	segs := Split(pattern)

	p := &Pattern{
		raw:      pattern,
		segments: len(segs),
	}

	expr := make([]string, 0, len(segs))
	for i, seg := range segs {
		switch {
		case paramSegment.MatchString(seg):
			p.names = append(p.names, seg[1:])
			expr = append(expr, `([^/]+)`)
		case seg == "*" && i == len(segs)-1:
			p.wildcard = true
			expr = append(expr, `.*`)
		default:
			expr = append(expr, regexp.QuoteMeta(seg))
		}
	}

	p.re = regexp.MustCompile(`^` + strings.Join(expr, `/`) + `$`)
	return p
}

// Raw returns the pattern string the Pattern was compiled from.
func (p *Pattern) Raw() string {
	return p.raw
}

// Wildcard reports whether the pattern ends in a "*" segment.
func (p *Pattern) Wildcard() bool {
	return p.wildcard
}

// Match tests a concrete path against the pattern and extracts named
// parameters. Both sides are segment-normalized first, so duplicate and
// trailing slashes never affect the outcome.
//
// A segment-count mismatch fails immediately unless the pattern carries a
// trailing wildcard, in which case the wildcard consumes the remainder.
func (p *Pattern) Match(path string) ([]Param, bool) {
	segs := Split(path)

	// Fast reject before touching the regexp. Parameter segments never match
	// zero or multiple path segments.
	if !p.wildcard && len(segs) != p.segments {
		return nil, false
	}

	m := p.re.FindStringSubmatch(strings.Join(segs, "/"))
	if m == nil {
		return nil, false
	}

	if len(p.names) == 0 {
		return nil, true
	}
	params := make([]Param, len(p.names))
	for i, name := range p.names {
		params[i] = Param{Name: name, Value: m[i+1]}
	}
	return params, true
}

// Match is the one-shot form of Pattern.Match for callers that do not hold a
// compiled Pattern.
func Match(pattern, path string) ([]Param, bool) {
	return Compile(pattern).Match(path)
}
