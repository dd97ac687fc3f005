package cutspec

import (
	"github.com/xuenqlve/cutbrick/errors"
)

// 安全限制常量
const (
	MaxInputLength = 10000 // 最大输入长度
	MaxTokenCount  = 4096  // 最大token数量
	MaxBrickCount  = 256   // 单个切割最多砖块数量
)

type TokenType int

const (
	TokenIdent     TokenType = iota // 名字或砖块类型
	TokenNumber                     // 数值参数
	TokenLeftBrace                  // {
	TokenRightBrace                 // }
	TokenLeftParen                  // (
	TokenRightParen                 // )
	TokenComma                      // ,
	TokenSemicolon                  // ;
	TokenEquals                     // =
	TokenEOF
)

var tokenNames = map[TokenType]string{
	TokenIdent:      "identifier",
	TokenNumber:     "number",
	TokenLeftBrace:  "'{'",
	TokenRightBrace: "'}'",
	TokenLeftParen:  "'('",
	TokenRightParen: "')'",
	TokenComma:      "','",
	TokenSemicolon:  "';'",
	TokenEquals:     "'='",
	TokenEOF:        "end of input",
}

func (t TokenType) String() string {
	return tokenNames[t]
}

// Token 词法单元，Pos 为在输入中的字节偏移
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

var punctuation = map[byte]TokenType{
	'{': TokenLeftBrace,
	'}': TokenRightBrace,
	'(': TokenLeftParen,
	')': TokenRightParen,
	',': TokenComma,
	';': TokenSemicolon,
	'=': TokenEquals,
}

// tokenize 词法分析器：将切割表达式解析为 tokens，末尾追加 EOF
func tokenize(expr string) ([]Token, error) {
	if len(expr) > MaxInputLength {
		return nil, errors.NewCutErrorf(errors.ErrCodeSpecParse, "input length %d exceeds maximum %d", len(expr), MaxInputLength)
	}
	var tokens []Token
	i := 0
	for i < len(expr) {
		if len(tokens) >= MaxTokenCount {
			return nil, errors.NewCutErrorf(errors.ErrCodeSpecParse, "token count exceeded maximum: %d", MaxTokenCount)
		}
		c := expr[i]
		// 跳过空白字符
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}
		if tt, ok := punctuation[c]; ok {
			tokens = append(tokens, Token{Type: tt, Value: string(c), Pos: i})
			i++
			continue
		}
		if isIdentStart(c) {
			start := i
			for i < len(expr) && isIdentPart(expr[i]) {
				i++
			}
			tokens = append(tokens, Token{Type: TokenIdent, Value: expr[start:i], Pos: start})
			continue
		}
		if isDigit(c) || c == '+' || c == '-' || c == '.' {
			end, err := scanNumber(expr, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Token{Type: TokenNumber, Value: expr[i:end], Pos: i})
			i = end
			continue
		}
		return nil, errors.NewCutErrorf(errors.ErrCodeSpecParse, "position %d: unexpected character %q", i, c)
	}
	tokens = append(tokens, Token{Type: TokenEOF, Pos: len(expr)})
	return tokens, nil
}

// scanNumber 读取 [+-] digits [. digits] [e [+-] digits]，返回结束位置
func scanNumber(expr string, start int) (int, error) {
	i := start
	if expr[i] == '+' || expr[i] == '-' {
		i++
	}
	digits := 0
	for i < len(expr) && isDigit(expr[i]) {
		i++
		digits++
	}
	if i < len(expr) && expr[i] == '.' {
		i++
		for i < len(expr) && isDigit(expr[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, errors.NewCutErrorf(errors.ErrCodeSpecParse, "position %d: malformed number", start)
	}
	if i < len(expr) && (expr[i] == 'e' || expr[i] == 'E') {
		i++
		if i < len(expr) && (expr[i] == '+' || expr[i] == '-') {
			i++
		}
		expDigits := 0
		for i < len(expr) && isDigit(expr[i]) {
			i++
			expDigits++
		}
		if expDigits == 0 {
			return 0, errors.NewCutErrorf(errors.ErrCodeSpecParse, "position %d: malformed exponent", start)
		}
	}
	return i, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
