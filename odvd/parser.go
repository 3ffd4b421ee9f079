package odvd

import (
	"fmt"
	"strconv"
)

// parser performs a recursive-descent parse of the grammar in
// SPEC_FULL.md §4.A, collecting ParseErrors instead of failing fast so that
// Parse can still return whatever MetaMessages it managed to build.
type parser struct {
	lex  *lexer
	tok  token
	errs []*ParseError
}

// Parse parses src as a .odvd file, returning every MetaMessage it could
// build plus any errors encountered. A non-empty error slice does not
// necessarily mean messages is empty: partial results are always returned
// alongside the diagnostics, per SPEC_FULL.md §4.A.
func Parse(src string) ([]MetaMessage, []*ParseError) {
	p := &parser{lex: newLexer(src)}
	p.advance()

	var messages []MetaMessage
	for p.tok.kind != tokEOF {
		if p.tok.kind == tokIdent && p.tok.text == "message" {
			if m, ok := p.parseMessage(); ok {
				messages = append(messages, m)
			}
			continue
		}
		p.errorf(Syntax, "expected 'message', got %q", p.tok.text)
		p.advance()
	}

	p.errs = validate(messages, p.errs)
	return messages, p.errs
}

// ParseCorpus is a convenience wrapper around Parse that indexes the result
// into a Corpus. It returns every error Parse reported alongside the corpus
// built from whatever messages were recovered.
func ParseCorpus(src string) (*Corpus, []*ParseError) {
	messages, errs := Parse(src)
	return NewCorpus(messages), errs
}

func (p *parser) advance() {
	tok, err := p.lex.next()
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			p.errs = append(p.errs, pe)
		}
		// Skip the offending byte and keep going so later content can still
		// be parsed.
		p.lex.advance(1)
		p.advance()
		return
	}
	p.tok = tok
}

func (p *parser) errorf(kind ErrorKind, format string, args ...any) {
	p.errs = append(p.errs, &ParseError{
		Kind:    kind,
		Line:    p.tok.line,
		Col:     p.tok.col,
		Message: fmt.Sprintf(format, args...),
	})
}

func (p *parser) expect(kind tokenKind, what string) (token, bool) {
	if p.tok.kind != kind {
		p.errorf(Syntax, "expected %s, got %q", what, p.tok.text)
		return token{}, false
	}
	tok := p.tok
	p.advance()
	return tok, true
}

// parseMessage parses `"message" dotted_ident "[" "id" "=" uint "]" "{" { field } "}"`.
func (p *parser) parseMessage() (MetaMessage, bool) {
	p.advance() // consume "message"

	nameTok, ok := p.expect(tokIdent, "message name")
	if !ok {
		return MetaMessage{}, false
	}

	if _, ok := p.expect(tokLBracket, "'['"); !ok {
		return MetaMessage{}, false
	}
	id, ok := p.parseAttr("id")
	if !ok {
		return MetaMessage{}, false
	}
	if _, ok := p.expect(tokRBracket, "']'"); !ok {
		return MetaMessage{}, false
	}
	if _, ok := p.expect(tokLBrace, "'{'"); !ok {
		return MetaMessage{}, false
	}

	msg := MetaMessage{LongName: nameTok.text, ID: uint32(id)}
	for p.tok.kind != tokRBrace && p.tok.kind != tokEOF {
		field, ok := p.parseField()
		if !ok {
			// Resynchronize to the next ';' or '}' to keep collecting errors.
			for p.tok.kind != tokSemi && p.tok.kind != tokRBrace && p.tok.kind != tokEOF {
				p.advance()
			}
			if p.tok.kind == tokSemi {
				p.advance()
			}
			continue
		}
		msg.Fields = append(msg.Fields, field)
	}
	if _, ok := p.expect(tokRBrace, "'}'"); !ok {
		return msg, true
	}
	return msg, true
}

// parseField parses `type ident "[" attr { "," attr } "]" ";"`.
func (p *parser) parseField() (MetaField, bool) {
	typeTok, ok := p.expect(tokIdent, "field type")
	if !ok {
		return MetaField{}, false
	}
	nameTok, ok := p.expect(tokIdent, "field name")
	if !ok {
		return MetaField{}, false
	}
	if _, ok := p.expect(tokLBracket, "'['"); !ok {
		return MetaField{}, false
	}

	field := MetaField{Name: nameTok.text}
	if ft, known := typeNames[typeTok.text]; known {
		field.Type = ft
	} else {
		field.Type = Message
		field.MessageTypeName = typeTok.text
	}

	var sawID bool
	for {
		switch p.tok.text {
		case "id":
			id, ok := p.parseAttr("id")
			if !ok {
				return MetaField{}, false
			}
			field.ID = uint32(id)
			sawID = true
		case "default":
			lit, ok := p.parseDefaultAttr(field.Type)
			if !ok {
				return MetaField{}, false
			}
			field.Default = lit
		default:
			p.errorf(Syntax, "unknown field attribute %q", p.tok.text)
			return MetaField{}, false
		}
		if p.tok.kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	if !sawID {
		p.errorf(Syntax, "field %q missing id attribute", field.Name)
		return MetaField{}, false
	}
	if _, ok := p.expect(tokRBracket, "']'"); !ok {
		return MetaField{}, false
	}
	if _, ok := p.expect(tokSemi, "';'"); !ok {
		return MetaField{}, false
	}
	return field, true
}

// parseAttr parses `name "=" uint`, returning the parsed integer.
func (p *parser) parseAttr(name string) (uint64, bool) {
	if p.tok.kind != tokIdent || p.tok.text != name {
		p.errorf(Syntax, "expected %q attribute, got %q", name, p.tok.text)
		return 0, false
	}
	p.advance()
	if _, ok := p.expect(tokEquals, "'='"); !ok {
		return 0, false
	}
	numTok, ok := p.expect(tokNumber, "unsigned integer")
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(numTok.text, 10, 64)
	if err != nil {
		p.errs = append(p.errs, &ParseError{Kind: Syntax, Line: numTok.line, Col: numTok.col, Message: "invalid unsigned integer " + strconv.Quote(numTok.text)})
		return 0, false
	}
	return v, true
}

// parseDefaultAttr parses `"default" "=" literal`, typing the literal to ft.
func (p *parser) parseDefaultAttr(ft FieldType) (any, bool) {
	if p.tok.kind != tokIdent || p.tok.text != "default" {
		p.errorf(Syntax, "expected \"default\" attribute, got %q", p.tok.text)
		return nil, false
	}
	p.advance()
	if _, ok := p.expect(tokEquals, "'='"); !ok {
		return nil, false
	}

	tok := p.tok
	switch tok.kind {
	case tokNumber:
		p.advance()
		return typedNumericLiteral(ft, tok.text), true
	case tokString:
		p.advance()
		return tok.text, true
	case tokIdent:
		if tok.text == "true" || tok.text == "false" {
			p.advance()
			return tok.text == "true", true
		}
		p.errorf(Syntax, "invalid default literal %q", tok.text)
		return nil, false
	default:
		p.errorf(Syntax, "invalid default literal %q", tok.text)
		return nil, false
	}
}

func typedNumericLiteral(ft FieldType, text string) any {
	switch ft {
	case Float:
		f, _ := strconv.ParseFloat(text, 32)
		return float32(f)
	case Double:
		f, _ := strconv.ParseFloat(text, 64)
		return f
	case Bool:
		return text != "0"
	case Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64, Char:
		return castInt(ft, text)
	default:
		i, _ := strconv.ParseInt(text, 10, 64)
		return i
	}
}

func castInt(ft FieldType, text string) any {
	if ft.IsSigned() {
		v, _ := strconv.ParseInt(text, 10, 64)
		switch ft {
		case Int8:
			return int8(v)
		case Int16:
			return int16(v)
		case Int32:
			return int32(v)
		default:
			return v
		}
	}
	v, _ := strconv.ParseUint(text, 10, 64)
	switch ft {
	case Uint8, Char:
		return uint8(v)
	case Uint16:
		return uint16(v)
	case Uint32:
		return uint32(v)
	default:
		return v
	}
}

// validate enforces the invariants of SPEC_FULL.md §3/§4.A across the whole
// file: unique, positive field ids within a message; unique message ids;
// and message-typed fields referencing a message declared in this parse.
func validate(messages []MetaMessage, errs []*ParseError) []*ParseError {
	seenMsgID := make(map[uint32]bool, len(messages))
	known := make(map[string]bool, len(messages))
	for _, m := range messages {
		known[m.LongName] = true
	}

	for _, m := range messages {
		if seenMsgID[m.ID] {
			appendErr(&errs, &ParseError{Kind: DuplicateMessageID, Message: "duplicate message id " + strconv.FormatUint(uint64(m.ID), 10) + " on " + m.LongName})
		}
		seenMsgID[m.ID] = true

		seenFieldID := make(map[uint32]bool, len(m.Fields))
		for _, f := range m.Fields {
			if seenFieldID[f.ID] {
				appendErr(&errs, &ParseError{Kind: DuplicateFieldID, Message: "duplicate field id " + strconv.FormatUint(uint64(f.ID), 10) + " in " + m.LongName})
			}
			seenFieldID[f.ID] = true

			if f.ID == 0 {
				appendErr(&errs, &ParseError{Kind: Syntax, Message: "field id 0 is not positive in " + m.LongName + "." + f.Name})
			}

			if f.Type == Message && !known[f.MessageTypeName] {
				appendErr(&errs, &ParseError{Kind: UnknownType, Message: "unknown message type " + strconv.Quote(f.MessageTypeName) + " referenced by " + m.LongName + "." + f.Name})
			}
		}
	}
	return errs
}

func appendErr(errs *[]*ParseError, e *ParseError) {
	*errs = append(*errs, e)
}
