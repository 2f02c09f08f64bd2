// Package resolver evaluates $ref leaves in a node's input against the
// output context, and enforces the mode-dependent template-literal gate
// (spec.md §4.3).
package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nodeflowrun/automator/internal/ir"
	automatorerrors "github.com/nodeflowrun/automator/pkg/errors"
)

// Mode selects the strictness gate applied to string leaves.
type Mode int

const (
	// Explore is the permissive default: template literals pass through.
	Explore Mode = iota
	// Verify rejects template literals, same as Prod.
	Verify
	// Prod rejects template literals, same as Verify.
	Prod
)

// String renders a Mode the way CLI flags and env vars spell it.
func (m Mode) String() string {
	switch m {
	case Explore:
		return "explore"
	case Verify:
		return "verify"
	case Prod:
		return "prod"
	default:
		return "unknown"
	}
}

// Context is the read-only view the resolver walks against: one entry
// per node id that has already produced output.
type Context map[string]ir.Value

// Resolve walks input recursively, substituting every $ref leaf with the
// value it points to in ctx, and rejecting template literals under
// Verify/Prod. Returns a ResolverError (via pkg/errors) on any failure,
// carrying the Retryable/Permanent classification spec.md §4.3 assigns.
func Resolve(input ir.Value, ctx Context, mode Mode) (ir.Value, error) {
	if refPath, ok := input.IsRef(); ok {
		return resolveRef(refPath, ctx)
	}

	switch input.Kind() {
	case ir.KindString:
		s, _ := input.Str()
		if mode != Explore && containsTemplateLiteral(s) {
			return ir.Value{}, automatorerrors.NewResolverError(s,
				"template literals not allowed in verify/prod; use $ref",
				automatorerrors.Permanent, nil)
		}
		return input, nil

	case ir.KindSequence:
		items, _ := input.Items()
		resolved := make([]ir.Value, len(items))
		for i, item := range items {
			r, err := Resolve(item, ctx, mode)
			if err != nil {
				return ir.Value{}, err
			}
			resolved[i] = r
		}
		return ir.Sequence(resolved), nil

	case ir.KindMapping:
		entries, _ := input.Entries()
		resolved := make([]ir.Entry, len(entries))
		for i, e := range entries {
			r, err := Resolve(e.Value, ctx, mode)
			if err != nil {
				return ir.Value{}, err
			}
			resolved[i] = ir.Entry{Key: e.Key, Value: r}
		}
		return ir.Mapping(resolved), nil

	default:
		return input, nil
	}
}

func containsTemplateLiteral(s string) bool {
	return strings.Contains(s, "{{") && strings.Contains(s, "}}")
}

// token is one path segment after "output": an optional field name and/or
// a bracketed integer index.
type token struct {
	field    string
	hasField bool
	index    int
	hasIndex bool
}

func resolveRef(path string, ctx Context) (ir.Value, error) {
	nodeID, tokens, err := parsePath(path)
	if err != nil {
		return ir.Value{}, automatorerrors.NewResolverError(path, err.Error(), automatorerrors.Permanent, nil)
	}

	root, ok := ctx[nodeID]
	if !ok {
		return ir.Value{}, automatorerrors.NewResolverError(path,
			fmt.Sprintf("$ref to node %q with no output yet", nodeID),
			automatorerrors.Retryable, nil)
	}

	current := root
	for _, tok := range tokens {
		if tok.hasField {
			v, ok := current.Field(tok.field)
			if !ok {
				return ir.Value{}, automatorerrors.NewResolverError(path,
					fmt.Sprintf("field %q not present on output of node %q", tok.field, nodeID),
					automatorerrors.Permanent, nil)
			}
			current = v
		}
		if tok.hasIndex {
			v, ok := current.Index(tok.index)
			if !ok {
				return ir.Value{}, automatorerrors.NewResolverError(path,
					fmt.Sprintf("index %d out of range or not a sequence in node %q output", tok.index, nodeID),
					automatorerrors.Permanent, nil)
			}
			current = v
		}
	}

	return current, nil
}

// parsePath validates the $.nodes.<id>.output([n])?(.<token>)* grammar and
// returns the referenced node id and the remaining navigation tokens.
// Double-bracket indices ("[[n]]") are explicitly rejected per the
// spec's resolution of its own open question.
func parsePath(path string) (string, []token, error) {
	if strings.Contains(path, "[[") || strings.Contains(path, "]]") {
		return "", nil, fmt.Errorf("Unsupported $ref path")
	}

	segments := strings.Split(path, ".")
	if len(segments) < 4 {
		return "", nil, fmt.Errorf("Unsupported $ref path")
	}
	if segments[0] != "$" || segments[1] != "nodes" {
		return "", nil, fmt.Errorf("Unsupported $ref path")
	}

	nodeID := segments[2]
	if nodeID == "" {
		return "", nil, fmt.Errorf("Unsupported $ref path")
	}

	outputTok, err := parseToken(segments[3])
	if err != nil || outputTok.field != "output" || !outputTok.hasField {
		return "", nil, fmt.Errorf("Unsupported $ref path")
	}

	var tokens []token
	if outputTok.hasIndex {
		tokens = append(tokens, token{hasIndex: true, index: outputTok.index})
	}

	for _, seg := range segments[4:] {
		tok, err := parseToken(seg)
		if err != nil {
			return "", nil, err
		}
		tokens = append(tokens, tok)
	}

	return nodeID, tokens, nil
}

func parseToken(seg string) (token, error) {
	if seg == "" {
		return token{}, fmt.Errorf("Unsupported $ref path")
	}

	// "[<integer>]" alone.
	if strings.HasPrefix(seg, "[") {
		idx, rest, err := parseIndex(seg)
		if err != nil || rest != "" {
			return token{}, fmt.Errorf("Unsupported $ref path")
		}
		return token{hasIndex: true, index: idx}, nil
	}

	// "<identifier>" or "<identifier>[<integer>]".
	bracket := strings.IndexByte(seg, '[')
	if bracket == -1 {
		if !isIdentifier(seg) {
			return token{}, fmt.Errorf("Unsupported $ref path")
		}
		return token{field: seg, hasField: true}, nil
	}

	field := seg[:bracket]
	if !isIdentifier(field) {
		return token{}, fmt.Errorf("Unsupported $ref path")
	}
	idx, rest, err := parseIndex(seg[bracket:])
	if err != nil || rest != "" {
		return token{}, fmt.Errorf("Unsupported $ref path")
	}
	return token{field: field, hasField: true, index: idx, hasIndex: true}, nil
}

// parseIndex consumes a leading "[<digits>]" from s and returns the index
// plus whatever remains after the closing bracket.
func parseIndex(s string) (int, string, error) {
	if len(s) < 3 || s[0] != '[' {
		return 0, "", fmt.Errorf("malformed index")
	}
	end := strings.IndexByte(s, ']')
	if end <= 1 {
		return 0, "", fmt.Errorf("malformed index")
	}
	idx, err := strconv.Atoi(s[1:end])
	if err != nil || idx < 0 {
		return 0, "", fmt.Errorf("malformed index")
	}
	return idx, s[end+1:], nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isAlpha {
			return false
		}
		if i > 0 && !isAlpha && !isDigit {
			return false
		}
	}
	return true
}
