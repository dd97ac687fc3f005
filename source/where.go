package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuenqlve/cutbrick/cache"
	"github.com/xuenqlve/cutbrick/compare"
	"github.com/xuenqlve/cutbrick/errors"
)

const (
	MaxWhereLength = 10000
	MaxWhereDepth  = 50
)

var whereCache = cache.NewCache[*whereNode](30*time.Minute, 0)

type whereKind int

const (
	whereCond whereKind = iota
	whereAnd
	whereOr
)

type whereNode struct {
	kind        whereKind
	left, right *whereNode
	cond        condition
}

type condition struct {
	field string
	op    string
	value any // float64, string, bool 或 nil
}

// 同一位置优先匹配长操作符
var whereOperators = []string{"<=", ">=", "==", "!=", "<", ">", "="}

type whereToken struct {
	value string
	pos   int
}

// ParseWhere 解析 where 条件，例如 `run == 246087 and (ntracks > 10 or trigger == 'mb')`
func ParseWhere(where string) (*Where, error) {
	key := strings.TrimSpace(where)
	if root, ok := whereCache.Get(key); ok {
		return &Where{expr: key, root: root}, nil
	}
	if len(key) > MaxWhereLength {
		return nil, whereError("input length %d exceeds maximum %d", len(key), MaxWhereLength)
	}
	tokens, err := tokenizeWhere(key)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return &Where{expr: key}, nil
	}
	p := &whereParser{tokens: tokens}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		return nil, whereError("position %d: unexpected %q", tok.pos, tok.value)
	}
	whereCache.Set(key, root, cache.DefaultExpiration)
	return &Where{expr: key, root: root}, nil
}

func whereError(format string, args ...any) error {
	return errors.NewCutErrorf(errors.ErrCodeRecordSource, "where: "+format, args...)
}

func isKeyword(s string, i int, kw string) bool {
	end := i + len(kw)
	if end > len(s) || !strings.EqualFold(s[i:end], kw) {
		return false
	}
	prevOk := i == 0 || s[i-1] == ' ' || s[i-1] == '\t' || s[i-1] == '\n' || s[i-1] == ')'
	nextOk := end == len(s) || s[end] == ' ' || s[end] == '\t' || s[end] == '\n' || s[end] == '('
	return prevOk && nextOk
}

// tokenizeWhere 切分为括号、and/or 关键字和条件文本，引号内的内容原样保留
func tokenizeWhere(s string) ([]whereToken, error) {
	var tokens []whereToken
	depth := 0
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++
		case c == '(':
			depth++
			if depth > MaxWhereDepth {
				return nil, whereError("parentheses depth exceeded maximum: %d", MaxWhereDepth)
			}
			tokens = append(tokens, whereToken{value: "(", pos: i})
			i++
		case c == ')':
			depth--
			if depth < 0 {
				return nil, whereError("position %d: unmatched right parenthesis", i)
			}
			tokens = append(tokens, whereToken{value: ")", pos: i})
			i++
		case isKeyword(s, i, "and"):
			tokens = append(tokens, whereToken{value: "and", pos: i})
			i += 3
		case isKeyword(s, i, "or"):
			tokens = append(tokens, whereToken{value: "or", pos: i})
			i += 2
		default:
			start := i
			var quote byte
			for i < len(s) {
				c = s[i]
				if quote != 0 {
					if c == quote {
						quote = 0
					}
					i++
					continue
				}
				if c == '\'' || c == '"' {
					quote = c
					i++
					continue
				}
				if c == '(' || c == ')' {
					break
				}
				if (c == ' ' || c == '\t' || c == '\n') && (isKeyword(s, i+1, "and") || isKeyword(s, i+1, "or")) {
					break
				}
				i++
			}
			if quote != 0 {
				return nil, whereError("position %d: unterminated string", start)
			}
			tokens = append(tokens, whereToken{value: strings.TrimSpace(s[start:i]), pos: start})
		}
	}
	if depth != 0 {
		return nil, whereError("unmatched parentheses: depth %d", depth)
	}
	return tokens, nil
}

type whereParser struct {
	tokens []whereToken
	pos    int
}

func (p *whereParser) peek() string {
	if p.pos < len(p.tokens) {
		return strings.ToLower(p.tokens[p.pos].value)
	}
	return ""
}

func (p *whereParser) parseOr() (*whereNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek() == "or" {
		p.pos++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &whereNode{kind: whereOr, left: left, right: right}
	}
	return left, nil
}

func (p *whereParser) parseAnd() (*whereNode, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek() == "and" {
		p.pos++
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &whereNode{kind: whereAnd, left: left, right: right}
	}
	return left, nil
}

func (p *whereParser) parsePrimary() (*whereNode, error) {
	if p.pos >= len(p.tokens) {
		return nil, whereError("unexpected end of expression")
	}
	tok := p.tokens[p.pos]
	switch strings.ToLower(tok.value) {
	case "(":
		p.pos++
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, whereError("position %d: expected )", tok.pos)
		}
		p.pos++
		return node, nil
	case ")", "and", "or":
		return nil, whereError("position %d: unexpected %q", tok.pos, tok.value)
	}
	p.pos++
	cond, err := parseCondition(tok)
	if err != nil {
		return nil, err
	}
	return &whereNode{kind: whereCond, cond: cond}, nil
}

func parseCondition(tok whereToken) (condition, error) {
	text := tok.value
	at, op := -1, ""
	for _, candidate := range whereOperators {
		i := strings.Index(text, candidate)
		if i >= 0 && (at < 0 || i < at) {
			at, op = i, candidate
		}
	}
	if at < 0 {
		return condition{}, whereError("position %d: %q has no comparison operator", tok.pos, text)
	}
	field := strings.TrimSpace(text[:at])
	raw := strings.TrimSpace(text[at+len(op):])
	if field == "" || raw == "" {
		return condition{}, whereError("position %d: incomplete condition %q", tok.pos, text)
	}
	if op == "=" {
		op = "=="
	}
	return condition{field: field, op: op, value: parseWhereValue(raw)}, nil
}

func parseWhereValue(raw string) any {
	if len(raw) >= 2 && (raw[0] == '\'' || raw[0] == '"') && raw[len(raw)-1] == raw[0] {
		return raw[1 : len(raw)-1]
	}
	switch strings.ToLower(raw) {
	case "null", "nil":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

// Where 记录过滤条件
type Where struct {
	expr string
	root *whereNode
}

func (w *Where) String() string {
	return w.expr
}

// Match 记录是否满足条件。空条件匹配所有记录，缺失字段的条件不成立
func (w *Where) Match(rec Record) bool {
	if w == nil || w.root == nil {
		return true
	}
	return w.root.eval(rec)
}

func (n *whereNode) eval(rec Record) bool {
	switch n.kind {
	case whereAnd:
		return n.left.eval(rec) && n.right.eval(rec)
	case whereOr:
		return n.left.eval(rec) || n.right.eval(rec)
	}
	return n.cond.eval(rec)
}

func (c condition) eval(rec Record) bool {
	field, ok := rec[c.field]
	if !ok {
		return false
	}
	if field == nil || c.value == nil {
		switch c.op {
		case "==":
			return field == nil && c.value == nil
		case "!=":
			return (field == nil) != (c.value == nil)
		}
		return false
	}
	switch v := c.value.(type) {
	case float64:
		if f, err := compare.ToFloat64(field); err == nil {
			return compareOrdered(f, c.op, v)
		}
	case bool:
		if f, err := compare.ToFloat64(field); err == nil {
			want := 0.0
			if v {
				want = 1
			}
			return compareOrdered(f, c.op, want)
		}
	}
	return compareOrdered(toString(field), c.op, fmt.Sprint(c.value))
}

func toString(v any) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprint(v)
}

func compareOrdered[T float64 | string](a T, op string, b T) bool {
	switch op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

// Filtered 只返回满足条件的记录
type Filtered struct {
	Source
	where *Where
}

func NewFiltered(src Source, where *Where) *Filtered {
	return &Filtered{Source: src, where: where}
}

func (f *Filtered) Next(ctx context.Context) (Record, error) {
	for {
		rec, err := f.Source.Next(ctx)
		if err != nil {
			return nil, err
		}
		if f.where.Match(rec) {
			return rec, nil
		}
	}
}
