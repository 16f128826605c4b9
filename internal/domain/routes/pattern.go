package routes

import (
	"strings"

	"github.com/GriffinCanCode/microshell/internal/shared/paths"
)

// catch-all parameter suffixes, as written in host router tables
var catchAllSuffixes = []string{"(.*)*", "(.*)"}

type segment struct {
	literal string
	param   string // set for :param segments
}

// pattern is a parsed route path
type pattern struct {
	raw      string
	segments []segment
	catchAll string // parameter name of a trailing catch-all
	wildcard bool
}

func parsePattern(raw string) pattern {
	p := pattern{raw: raw}
	parts := paths.Segments(raw)

	for i, part := range parts {
		if !strings.HasPrefix(part, ":") {
			p.segments = append(p.segments, segment{literal: part})
			continue
		}

		name := part[1:]
		if i == len(parts)-1 {
			for _, suffix := range catchAllSuffixes {
				if strings.HasSuffix(name, suffix) {
					p.catchAll = strings.TrimSuffix(name, suffix)
					p.wildcard = true
					return p
				}
			}
		}
		p.segments = append(p.segments, segment{param: name})
	}
	return p
}

// IsWildcard reports whether a route path ends in a catch-all parameter
func IsWildcard(path string) bool {
	return parsePattern(path).wildcard
}

// match tests a normalized path against the pattern
func (p pattern) match(path string) (map[string]string, bool) {
	parts := paths.Segments(path)

	if p.wildcard {
		if len(parts) < len(p.segments) {
			return nil, false
		}
	} else if len(parts) != len(p.segments) {
		return nil, false
	}

	var params map[string]string
	for i, seg := range p.segments {
		if seg.param != "" {
			if params == nil {
				params = make(map[string]string)
			}
			params[seg.param] = parts[i]
			continue
		}
		if seg.literal != parts[i] {
			return nil, false
		}
	}

	if p.wildcard && p.catchAll != "" {
		if params == nil {
			params = make(map[string]string)
		}
		params[p.catchAll] = strings.Join(parts[len(p.segments):], "/")
	}
	return params, true
}
