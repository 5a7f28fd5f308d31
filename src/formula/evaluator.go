// Package formula evaluates calculation formulas of table columns.
//
// Grammar ถูกจำกัดไว้ที่เลขคณิตล้วน: ตัวเลข, ชื่อ column, + - * / และวงเล็บ
// ห้ามมีการเรียก code อื่นจากสูตรที่ user พิมพ์เองโดยเด็ดขาด
package formula

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrorSentinel คือค่าที่เขียนลง cell เมื่อสูตร parse หรือคำนวณไม่ได้
// ฝั่ง UI แสดงค่านี้แทนผลลัพธ์ ไม่ใช่ crash
const ErrorSentinel = "Error"

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	num  float64
	text string
}

func lex(input string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '+':
			toks = append(toks, token{kind: tokPlus})
			i++
		case c == '-':
			toks = append(toks, token{kind: tokMinus})
			i++
		case c == '*':
			toks = append(toks, token{kind: tokStar})
			i++
		case c == '/':
			toks = append(toks, token{kind: tokSlash})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen})
			i++
		case c >= '0' && c <= '9' || c == '.':
			j := i
			for j < len(input) && (input[j] >= '0' && input[j] <= '9' || input[j] == '.') {
				j++
			}
			n, err := strconv.ParseFloat(input[i:j], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", input[i:j])
			}
			toks = append(toks, token{kind: tokNumber, num: n})
			i = j
		case isIdentStart(c):
			j := i
			for j < len(input) && isIdentPart(input[j]) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: input[i:j]})
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q", c)
		}
	}
	toks = append(toks, token{kind: tokEOF})
	return toks, nil
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

type parser struct {
	toks []token
	pos  int
	row  map[string]interface{}
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	p.pos++
	return t
}

// expr := term (('+' | '-') term)*
func (p *parser) expr() (float64, error) {
	v, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			rhs, err := p.term()
			if err != nil {
				return 0, err
			}
			v += rhs
		case tokMinus:
			p.next()
			rhs, err := p.term()
			if err != nil {
				return 0, err
			}
			v -= rhs
		default:
			return v, nil
		}
	}
}

// term := factor (('*' | '/') factor)*
func (p *parser) term() (float64, error) {
	v, err := p.factor()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek().kind {
		case tokStar:
			p.next()
			rhs, err := p.factor()
			if err != nil {
				return 0, err
			}
			v *= rhs
		case tokSlash:
			p.next()
			rhs, err := p.factor()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, errors.New("division by zero")
			}
			v /= rhs
		default:
			return v, nil
		}
	}
}

// factor := number | identifier | '(' expr ')' | ('+' | '-') factor
func (p *parser) factor() (float64, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return t.num, nil
	case tokIdent:
		// ชื่อ column จับคู่กับ key ของ row แบบตรงตัวอักษร
		// ชื่อที่ไม่รู้จักตีความเป็น 0
		return NumberValue(p.row[t.text]), nil
	case tokLParen:
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if p.next().kind != tokRParen {
			return 0, errors.New("missing closing parenthesis")
		}
		return v, nil
	case tokPlus:
		return p.factor()
	case tokMinus:
		v, err := p.factor()
		return -v, err
	default:
		return 0, errors.New("unexpected token in formula")
	}
}

// NumberValue แปลงค่าใน cell เป็นตัวเลขแบบ best-effort (แปลงไม่ได้ = 0)
func NumberValue(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Evaluate คำนวณสูตรกับค่าปัจจุบันของ row หนึ่งแถว
// เป็น pure function ของ (formula, row) — ไม่มี state แอบแฝง
func Evaluate(formula string, row map[string]interface{}) (float64, error) {
	toks, err := lex(formula)
	if err != nil {
		return 0, err
	}
	p := &parser{toks: toks, row: row}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if p.peek().kind != tokEOF {
		return 0, errors.New("unexpected trailing input in formula")
	}
	return v, nil
}

// EvaluateCell คืนค่าที่พร้อมเขียนลง cell: ตัวเลข หรือ sentinel "Error"
func EvaluateCell(formula string, row map[string]interface{}) interface{} {
	v, err := Evaluate(formula, row)
	if err != nil {
		return ErrorSentinel
	}
	return v
}
