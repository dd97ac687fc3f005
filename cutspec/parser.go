package cutspec

import (
	"strconv"

	"github.com/xuenqlve/cutbrick/errors"
)

// Parse 解析切割表达式
//
//	cut   := IDENT '{' list [ ';' list ] '}'
//	list  := brick { ',' brick }
//	brick := IDENT '=' KIND '(' number { ',' number } ')'
//
// 例如 zvtx{nominal=rg(-7,7);narrow=rg(-3,3),wide=rg(-10,10)}。
// 默认列表中有多个砖块时 AllowMultipleDefaults 为 true。
func Parse(expr string) (*Spec, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	spec, err := p.parseCut()
	if err != nil {
		return nil, err
	}
	if err = spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

type parser struct {
	tokens []Token
	pos    int
	bricks int
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Type != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(tt TokenType) (Token, error) {
	tok := p.next()
	if tok.Type != tt {
		return tok, unexpected(tok, tt.String())
	}
	return tok, nil
}

func unexpected(tok Token, want string) error {
	got := tok.Value
	if tok.Type == TokenEOF {
		got = tok.Type.String()
	}
	return errors.NewCutErrorf(errors.ErrCodeSpecParse, "position %d: expected %s, got %q", tok.Pos, want, got)
}

func (p *parser) parseCut() (*Spec, error) {
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(TokenLeftBrace); err != nil {
		return nil, err
	}
	spec := &Spec{Name: name.Value}
	if spec.Defaults, err = p.parseList(); err != nil {
		return nil, err
	}
	if p.peek().Type == TokenSemicolon {
		p.next()
		if spec.Variations, err = p.parseList(); err != nil {
			return nil, err
		}
	}
	if _, err = p.expect(TokenRightBrace); err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, unexpected(tok, TokenEOF.String())
	}
	spec.AllowMultipleDefaults = len(spec.Defaults) > 1
	return spec, nil
}

func (p *parser) parseList() ([]BrickSpec, error) {
	var list []BrickSpec
	for {
		b, err := p.parseBrick()
		if err != nil {
			return nil, err
		}
		list = append(list, b)
		if p.peek().Type != TokenComma {
			return list, nil
		}
		p.next()
	}
}

func (p *parser) parseBrick() (BrickSpec, error) {
	p.bricks++
	if p.bricks > MaxBrickCount {
		return BrickSpec{}, errors.NewCutErrorf(errors.ErrCodeSpecParse, "brick count exceeded maximum: %d", MaxBrickCount)
	}
	name, err := p.expect(TokenIdent)
	if err != nil {
		return BrickSpec{}, err
	}
	if _, err = p.expect(TokenEquals); err != nil {
		return BrickSpec{}, err
	}
	kindTok, err := p.expect(TokenIdent)
	if err != nil {
		return BrickSpec{}, err
	}
	kind, err := ParseKind(kindTok.Value)
	if err != nil {
		return BrickSpec{}, errors.Annotatef(err, "position %d", kindTok.Pos)
	}
	if _, err = p.expect(TokenLeftParen); err != nil {
		return BrickSpec{}, err
	}
	var params []float64
	for {
		tok, err := p.expect(TokenNumber)
		if err != nil {
			return BrickSpec{}, err
		}
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return BrickSpec{}, errors.NewCutErrorf(errors.ErrCodeSpecParse, "position %d: %v", tok.Pos, err)
		}
		params = append(params, v)
		if p.peek().Type != TokenComma {
			break
		}
		p.next()
	}
	if _, err = p.expect(TokenRightParen); err != nil {
		return BrickSpec{}, err
	}
	return BrickSpec{Name: name.Value, Kind: kind, Params: params}, nil
}
