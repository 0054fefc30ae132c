package parser

import "fmt"

// varKinds are the keywords that introduce a variable declaration and
// may also type a macro parameter.
var varKinds = map[SyntaxKind]bool{
	KwType:          true,
	KwTypeAttribute: true,
	KwRole:          true,
	KwRoleAttribute: true,
	KwUser:          true,
	KwUserAttribute: true,
	KwSensitivity:   true,
	KwCategory:      true,
	KwLevelRange:    true,
}

func (p *Parser) root() {
	m := p.mark()
	for !p.at(EOF) {
		progressed := p.mustProgress()
		p.item()
		progressed()
	}
	m.complete(p, KindRoot)
}

// item parses one top-level or body item. Keywords are plain
// identifiers; the dispatch matches on their text.
func (p *Parser) item() {
	if !p.at(Ident) {
		p.recoverItem("expected item")
		return
	}
	kw, ok := p.currentKeyword()
	if !ok {
		p.statement()
		return
	}
	switch {
	case kw == KwAbstract || kw == KwBlock || kw == KwOptional || kw == KwIn:
		p.container()
	case kw == KwMacro:
		p.macroDef()
	case varKinds[kw]:
		p.varDecl(kw)
	case kw == KwAllow || kw == KwAuditAllow || kw == KwNeverAllow || kw == KwDontAudit:
		p.rule(KindAvRule, kw, false)
	case kw == KwTypeTransition || kw == KwTypeMember || kw == KwTypeChange:
		p.rule(KindTypeTransitionRule, kw, true)
	case kw == KwRangeTransition:
		p.rule(KindRangeTransitionRule, kw, false)
	case kw == KwRoleTransition:
		p.rule(KindRoleTransitionRule, kw, false)
	case kw == KwClass:
		p.classDef()
	case kw == KwCommon:
		p.commonDef()
	case kw == KwFilecon:
		p.fileCon()
	case kw == KwPortcon:
		p.portCon()
	case kw == KwNetifcon:
		p.netifCon()
	case kw == KwAttributeSet:
		p.attributeSet()
	case kw == KwConstrain || kw == KwMlsconstrain:
		p.constraint(kw)
	case kw == KwIf:
		p.ifStmt()
	default:
		// extends, inherits, else and elseif never start an item.
		p.recoverItem(fmt.Sprintf("`%s` cannot start an item", p.currentText()))
	}
}

// body parses `{ item* }`. A missing `{` is reported and the body is
// skipped entirely.
func (p *Parser) body() {
	if !p.at(LBrace) {
		p.errorMissing("expected `{`")
		return
	}
	m := p.mark()
	open := p.currentRange()
	p.bump()
	p.bodyDepth++
	for !p.at(EOF) && !p.at(RBrace) {
		progressed := p.mustProgress()
		p.item()
		progressed()
	}
	p.bodyDepth--
	p.closeDelimiter(RBrace, open)
	m.complete(p, KindBody)
}

// name parses a declared name, optionally dotted.
func (p *Parser) name() bool {
	if !p.at(Ident) {
		p.errRecover("expected name")
		return false
	}
	m := p.mark()
	p.bump()
	for p.at(Dot) && p.nth(1) == Ident {
		p.bump()
		p.bump()
	}
	m.complete(p, KindName)
	return true
}

func (p *Parser) container() {
	m := p.mark()
	if p.atKeyword(KwAbstract) {
		p.bumpAs(KwAbstract)
	}
	kw, _ := p.currentKeyword()
	if kw != KwBlock && kw != KwOptional && kw != KwIn {
		p.errorMissing("expected `block`, `optional` or `in` after `abstract`")
		m.complete(p, KindContainer)
		return
	}
	p.bumpAs(kw)
	p.name()
	if p.atKeyword(KwExtends) || p.atKeyword(KwInherits) {
		p.extendsList()
	}
	p.body()
	m.complete(p, KindContainer)
}

func (p *Parser) extendsList() {
	m := p.mark()
	kw, _ := p.currentKeyword()
	p.bumpAs(kw)
	p.pathRef()
	for p.eat(Comma) {
		p.pathRef()
	}
	m.complete(p, KindExtendsList)
}

// pathRef parses a reference to a name, `a` or `a.b.c`.
func (p *Parser) pathRef() (completedMarker, bool) {
	if !p.at(Ident) {
		p.errRecover("expected name")
		return completedMarker{}, false
	}
	m := p.mark()
	p.bump()
	kind := KindNameRef
	for p.at(Dot) && p.nth(1) == Ident {
		p.bump()
		p.bump()
		kind = KindPath
	}
	return m.complete(p, kind), true
}

func (p *Parser) macroDef() {
	m := p.mark()
	p.bumpAs(KwMacro)
	p.name()
	if p.at(LParen) {
		p.paramList()
	} else {
		p.errorMissing("expected `(`")
	}
	p.body()
	m.complete(p, KindMacroDef)
}

func (p *Parser) paramList() {
	m := p.mark()
	open := p.currentRange()
	p.bump()
	for !p.at(RParen) && !p.at(EOF) {
		p.param()
		if p.at(RParen) {
			break
		}
		if !p.expect(Comma) {
			break
		}
	}
	p.closeDelimiter(RParen, open)
	m.complete(p, KindParamList)
}

// param parses `kind name` where kind is a variable keyword or a
// user-defined type name.
func (p *Parser) param() {
	if !p.at(Ident) {
		p.errRecover("expected parameter")
		return
	}
	m := p.mark()
	if kw, ok := p.currentKeyword(); ok && varKinds[kw] {
		p.bumpAs(kw)
	} else {
		p.bump()
	}
	p.name()
	m.complete(p, KindParam)
}

func (p *Parser) varDecl(kw SyntaxKind) {
	m := p.mark()
	p.bumpAs(kw)
	if p.name() && p.eat(Eq) {
		p.expr(RestrictNone)
	}
	p.expect(Semicolon)
	m.complete(p, KindVarDecl)
}

// rule parses the shared shape of all rule statements:
//
//	keyword source target ":" class tail [name] ";"
//
// where tail is the permission set, default type, range or new role.
// Once a part fails the rest is left for recovery.
func (p *Parser) rule(kind, kw SyntaxKind, allowName bool) {
	m := p.mark()
	p.bumpAs(kw)
	ok := p.expr(RestrictNoContext) &&
		p.expr(RestrictNoContext) &&
		p.expect(Colon) &&
		p.expr(RestrictNoContext) &&
		p.expr(RestrictNoContext)
	if ok {
		if allowName && p.at(String) {
			p.literal()
		}
		p.expect(Semicolon)
	} else {
		p.eat(Semicolon)
	}
	m.complete(p, kind)
}

func (p *Parser) classDef() {
	m := p.mark()
	p.bumpAs(KwClass)
	p.name()
	if p.atKeyword(KwInherits) {
		c := p.mark()
		p.bumpAs(KwInherits)
		p.pathRef()
		c.complete(p, KindInheritsClause)
	}
	p.permBlock()
	p.eat(Semicolon)
	m.complete(p, KindClassDef)
}

func (p *Parser) commonDef() {
	m := p.mark()
	p.bumpAs(KwCommon)
	p.name()
	p.permBlock()
	p.eat(Semicolon)
	m.complete(p, KindCommonDef)
}

// permBlock parses `{ name, name, ... }` with an optional trailing comma.
func (p *Parser) permBlock() {
	if !p.at(LBrace) {
		p.errorMissing("expected `{`")
		return
	}
	m := p.mark()
	open := p.currentRange()
	p.bump()
	for !p.at(RBrace) && !p.at(EOF) {
		progressed := p.mustProgress()
		if p.name() && !p.at(RBrace) && !p.eat(Comma) {
			p.errorMissing("expected `,` or `}`")
		}
		progressed()
	}
	p.closeDelimiter(RBrace, open)
	m.complete(p, KindPermBlock)
}

// fileCon parses `filecon "path" [file_type] context ;`. A file type is
// present when the identifier is directly followed by the start of the
// context.
func (p *Parser) fileCon() {
	m := p.mark()
	p.bumpAs(KwFilecon)
	ok := true
	if p.at(String) {
		p.literal()
	} else {
		p.errRecover("expected path string")
		ok = false
	}
	if ok && p.at(Ident) && (p.nth(1) == Ident || p.nth(1) == LParen) {
		p.name()
	}
	if ok && p.expr(RestrictNone) {
		p.expect(Semicolon)
	} else {
		p.eat(Semicolon)
	}
	m.complete(p, KindFileCon)
}

func (p *Parser) portCon() {
	m := p.mark()
	p.bumpAs(KwPortcon)
	if p.name() && p.expr(RestrictNoContext) && p.expr(RestrictNone) {
		p.expect(Semicolon)
	} else {
		p.eat(Semicolon)
	}
	m.complete(p, KindPortCon)
}

func (p *Parser) netifCon() {
	m := p.mark()
	p.bumpAs(KwNetifcon)
	if p.name() && p.expr(RestrictNone) && p.expr(RestrictNone) {
		p.expect(Semicolon)
	} else {
		p.eat(Semicolon)
	}
	m.complete(p, KindNetifCon)
}

func (p *Parser) attributeSet() {
	m := p.mark()
	p.bumpAs(KwAttributeSet)
	if p.name() && p.expect(Eq) && p.expr(RestrictNone) {
		p.expect(Semicolon)
	} else {
		p.eat(Semicolon)
	}
	m.complete(p, KindAttributeSet)
}

// constraint parses `constrain class perms expr ;` and its mls variant.
func (p *Parser) constraint(kw SyntaxKind) {
	m := p.mark()
	p.bumpAs(kw)
	if p.expr(RestrictNoContext) && p.expr(RestrictNoContext) && p.expr(RestrictNone) {
		p.expect(Semicolon)
	} else {
		p.eat(Semicolon)
	}
	m.complete(p, KindConstraint)
}

func (p *Parser) ifStmt() {
	m := p.mark()
	p.bumpAs(KwIf)
	p.expr(RestrictNone)
	p.body()
	for p.atKeyword(KwElseif) {
		c := p.mark()
		p.bumpAs(KwElseif)
		p.expr(RestrictNone)
		p.body()
		c.complete(p, KindElseIfClause)
	}
	if p.atKeyword(KwElse) {
		c := p.mark()
		p.bumpAs(KwElse)
		if p.atKeyword(KwIf) {
			p.ifStmt()
		} else {
			p.body()
		}
		c.complete(p, KindElseClause)
	}
	m.complete(p, KindIfStmt)
}

// statement parses an item led by a bare identifier: a macro call
// `name(args);` or an in-place modification `name op= expr;`.
func (p *Parser) statement() {
	m := p.mark()
	p.pathRef()
	switch p.current() {
	case LParen:
		p.argList()
		p.expect(Semicolon)
		m.complete(p, KindMacroCall)
	case Eq, PlusEq, MinusEq:
		p.bump()
		if p.expr(RestrictNone) {
			p.expect(Semicolon)
		} else {
			p.eat(Semicolon)
		}
		m.complete(p, KindModifier)
	default:
		p.errorAt(p.currentRange(), "expected `(` or assignment, found "+p.describeCurrent())
		p.skipToItemEnd()
		m.complete(p, KindParseError)
	}
}

func (p *Parser) argList() {
	m := p.mark()
	open := p.currentRange()
	p.bump()
	for !p.at(RParen) && !p.at(EOF) {
		if !p.expr(RestrictNone) {
			break
		}
		if p.at(RParen) {
			break
		}
		if !p.expect(Comma) {
			break
		}
	}
	p.closeDelimiter(RParen, open)
	m.complete(p, KindArgList)
}
