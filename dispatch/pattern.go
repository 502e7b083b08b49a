package dispatch

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// AnyVerb registers a definition for every verb.
const AnyVerb = "*"

const defaultVarPattern = "[^/]+"

// Macros expand inside brace variables, e.g. "/users/{id:int}". A macro
// name that is not listed here is treated as a raw regular expression.
var macros = map[string]string{
	"int":  `\d+`,
	"hex":  `[0-9a-fA-F]+`,
	"uuid": `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
	"slug": `[a-z0-9]+(?:-[a-z0-9]+)*`,
	"date": `\d{4}-\d{2}-\d{2}`,
}

// Compiled expressions are shared process wide; route tables are often
// rebuilt with the same patterns.
var regexpCache sync.Map

func compileRegexp(expr string) (*regexp.Regexp, error) {
	if cached, ok := regexpCache.Load(expr); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	actual, _ := regexpCache.LoadOrStore(expr, re)
	return actual.(*regexp.Regexp), nil
}

// pattern is a compiled route selector over the composite verb plus path
// key, e.g. "GET/users/42".
type pattern struct {
	verb     string // AnyVerb admits every verb
	template string // normalized path template
	raw      string // composite literal form
	literal  bool   // fixed verb, no variables, no wildcards
	wildcard bool   // admits paths it was not literally registered for
	re       *regexp.Regexp
	varsN    []string
}

func compilePattern(verb, template string) (*pattern, error) {
	verb = strings.ToUpper(strings.TrimSpace(verb))
	if verb == "" {
		return nil, fmt.Errorf("dispatch: empty verb")
	}

	tpl, err := normalizeTemplate(template)
	if err != nil {
		return nil, err
	}

	p := &pattern{verb: verb, template: tpl, raw: verb + tpl}
	if verb != AnyVerb && !strings.ContainsAny(tpl, "{}*:?") {
		p.literal = true
		return p, nil
	}
	p.wildcard = verb == AnyVerb || strings.Contains(tpl, "*")

	expr, varsN, err := buildRegexp(verb, tpl)
	if err != nil {
		return nil, err
	}
	re, err := compileRegexp(expr)
	if err != nil {
		return nil, fmt.Errorf("dispatch: compile pattern %q: %w", verb+" "+tpl, err)
	}
	p.re = re
	p.varsN = varsN
	return p, nil
}

// normalizeTemplate forces a leading slash and strips one trailing slash,
// mirroring request path normalization so "/x" and "/x/" land on the same
// key.
func normalizeTemplate(template string) (string, error) {
	tpl := strings.TrimSpace(template)
	if tpl == "" {
		return "", fmt.Errorf("dispatch: empty path template")
	}
	if !strings.HasPrefix(tpl, "/") {
		tpl = "/" + tpl
	}
	if len(tpl) > 1 {
		tpl = strings.TrimSuffix(tpl, "/")
	}
	return tpl, nil
}

func buildRegexp(verb, tpl string) (string, []string, error) {
	idxs, err := braceIndices(tpl)
	if err != nil {
		return "", nil, err
	}

	var (
		expr  strings.Builder
		varsN []string
		end   int
	)
	expr.WriteByte('^')
	if verb == AnyVerb {
		expr.WriteString("[A-Z]+")
	} else {
		expr.WriteString(regexp.QuoteMeta(verb))
	}

	for i := 0; i < len(idxs); i += 2 {
		if err := plainChunk(&expr, &varsN, tpl[end:idxs[i]]); err != nil {
			return "", nil, err
		}

		group := tpl[idxs[i]+1 : idxs[i+1]-1]
		end = idxs[i+1]

		name, sub, hasSub := strings.Cut(group, ":")
		name = strings.TrimSpace(name)
		if !hasSub {
			sub = defaultVarPattern
		} else if m, ok := macros[sub]; ok {
			sub = m
		}
		if name == "" || sub == "" {
			return "", nil, fmt.Errorf("dispatch: malformed variable %q in %q", group, tpl)
		}
		varsN = append(varsN, name)
		expr.WriteString("(" + sub + ")")
	}
	if err := plainChunk(&expr, &varsN, tpl[end:]); err != nil {
		return "", nil, err
	}
	expr.WriteByte('$')

	return expr.String(), varsN, nil
}

// plainChunk renders template text outside braces: variables in the
// ":name" form, the single character "?", the segment wildcard "*" and the
// spanning wildcard "**".
func plainChunk(expr *strings.Builder, varsN *[]string, chunk string) error {
	for len(chunk) > 0 {
		switch {
		case strings.HasPrefix(chunk, "**"):
			expr.WriteString(".*")
			chunk = chunk[2:]
		case chunk[0] == '*':
			expr.WriteString("[^/]*")
			chunk = chunk[1:]
		case chunk[0] == '?':
			expr.WriteString("[^/]")
			chunk = chunk[1:]
		case chunk[0] == ':':
			rest := chunk[1:]
			j := 0
			for j < len(rest) && isVarChar(rest[j]) {
				j++
			}
			if j == 0 {
				return fmt.Errorf("dispatch: malformed variable in %q", chunk)
			}
			*varsN = append(*varsN, rest[:j])
			expr.WriteString("(" + defaultVarPattern + ")")
			chunk = rest[j:]
		default:
			j := strings.IndexAny(chunk, "*?:")
			if j < 0 {
				j = len(chunk)
			}
			expr.WriteString(regexp.QuoteMeta(chunk[:j]))
			chunk = chunk[j:]
		}
	}
	return nil
}

func isVarChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// braceIndices returns the start and end offsets of first level brace
// groups in s.
func braceIndices(s string) ([]int, error) {
	var level, idx int
	var idxs []int
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if level++; level == 1 {
				idx = i
			}
		case '}':
			if level--; level == 0 {
				idxs = append(idxs, idx, i+1)
			} else if level < 0 {
				return nil, fmt.Errorf("dispatch: unbalanced braces in %q", s)
			}
		}
	}
	if level != 0 {
		return nil, fmt.Errorf("dispatch: unbalanced braces in %q", s)
	}
	return idxs, nil
}

// match tests a composite key (verb immediately followed by the normalized
// path) and extracts path variables on success.
func (p *pattern) match(key string) (map[string]string, bool) {
	if p.literal {
		return nil, key == p.raw
	}

	m := p.re.FindStringSubmatch(key)
	if m == nil {
		return nil, false
	}
	if len(p.varsN) == 0 {
		return nil, true
	}

	vars := make(map[string]string, len(p.varsN))
	for i, name := range p.varsN {
		vars[name] = m[i+1]
	}
	return vars, true
}

// regex reports whether matching goes through a compiled expression rather
// than literal comparison.
func (p *pattern) regex() bool { return !p.literal }

// display renders the human form, verb separated from the template.
func (p *pattern) display() string { return p.verb + " " + p.template }
