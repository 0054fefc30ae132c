package parser

// SyntaxKind labels every element of the tree, tokens and nodes alike.
// The value space is split into three disjoint ranges: token kinds,
// node kinds and keyword kinds. A keyword kind only ever appears on a
// leaf that the grammar promoted from a plain identifier.
type SyntaxKind uint16

const (
	tokenKindBase   SyntaxKind = 0
	nodeKindBase    SyntaxKind = 1000
	keywordKindBase SyntaxKind = 2000
	kindLimit       SyntaxKind = 3000
)

// Token kinds.
const (
	EOF SyntaxKind = tokenKindBase + iota
	Whitespace
	LineComment
	BlockComment
	Illegal
	Ident
	Number
	String
	LBrace
	RBrace
	LParen
	RParen
	Semicolon
	Comma
	Colon
	Dot
	DotDot
	Minus
	Eq
	PlusEq
	MinusEq
	Bang
	Tilde
	Amp
	AmpAmp
	Pipe
	PipePipe
	Caret
	Star

	tokenKindEnd
)

// Node kinds.
const (
	KindRoot SyntaxKind = nodeKindBase + iota
	KindParseError
	KindContainer
	KindName
	KindExtendsList
	KindBody
	KindMacroDef
	KindParamList
	KindParam
	KindVarDecl
	KindAvRule
	KindTypeTransitionRule
	KindRangeTransitionRule
	KindRoleTransitionRule
	KindClassDef
	KindCommonDef
	KindInheritsClause
	KindPermBlock
	KindFileCon
	KindPortCon
	KindNetifCon
	KindAttributeSet
	KindConstraint
	KindIfStmt
	KindElseIfClause
	KindElseClause
	KindMacroCall
	KindArgList
	KindModifier
	KindNameRef
	KindPath
	KindLiteral
	KindWildcard
	KindUnaryExpr
	KindBinaryExpr
	KindContext
	KindLevelRange
	KindCategoryRange
	KindList
	KindParen

	nodeKindEnd
)

// Keyword kinds.
const (
	KwBlock SyntaxKind = keywordKindBase + iota
	KwOptional
	KwIn
	KwAbstract
	KwExtends
	KwInherits
	KwMacro
	KwType
	KwTypeAttribute
	KwRole
	KwRoleAttribute
	KwUser
	KwUserAttribute
	KwSensitivity
	KwCategory
	KwLevelRange
	KwAllow
	KwAuditAllow
	KwNeverAllow
	KwDontAudit
	KwTypeTransition
	KwTypeMember
	KwTypeChange
	KwRangeTransition
	KwRoleTransition
	KwClass
	KwCommon
	KwFilecon
	KwPortcon
	KwNetifcon
	KwAttributeSet
	KwConstrain
	KwMlsconstrain
	KwIf
	KwElse
	KwElseif

	keywordKindEnd
)

func (k SyntaxKind) IsToken() bool {
	return k < tokenKindEnd
}

func (k SyntaxKind) IsNode() bool {
	return k >= nodeKindBase && k < nodeKindEnd
}

func (k SyntaxKind) IsKeyword() bool {
	return k >= keywordKindBase && k < keywordKindEnd
}

// IsTrivia reports whether tokens of this kind are skipped by the
// grammar and only kept for losslessness.
func (k SyntaxKind) IsTrivia() bool {
	switch k {
	case Whitespace, LineComment, BlockComment:
		return true
	}
	return false
}

// IsComment reports whether k is one of the comment trivia kinds.
func (k SyntaxKind) IsComment() bool {
	return k == LineComment || k == BlockComment
}

var tokenKindNames = map[SyntaxKind]string{
	EOF:          "EOF",
	Whitespace:   "Whitespace",
	LineComment:  "LineComment",
	BlockComment: "BlockComment",
	Illegal:      "Illegal",
	Ident:        "Ident",
	Number:       "Number",
	String:       "String",
	LBrace:       "{",
	RBrace:       "}",
	LParen:       "(",
	RParen:       ")",
	Semicolon:    ";",
	Comma:        ",",
	Colon:        ":",
	Dot:          ".",
	DotDot:       "..",
	Minus:        "-",
	Eq:           "=",
	PlusEq:       "+=",
	MinusEq:      "-=",
	Bang:         "!",
	Tilde:        "~",
	Amp:          "&",
	AmpAmp:       "&&",
	Pipe:         "|",
	PipePipe:     "||",
	Caret:        "^",
	Star:         "*",
}

var nodeKindNames = map[SyntaxKind]string{
	KindRoot:                "Root",
	KindParseError:          "ParseError",
	KindContainer:           "Container",
	KindName:                "Name",
	KindExtendsList:         "ExtendsList",
	KindBody:                "Body",
	KindMacroDef:            "MacroDef",
	KindParamList:           "ParamList",
	KindParam:               "Param",
	KindVarDecl:             "VarDecl",
	KindAvRule:              "AvRule",
	KindTypeTransitionRule:  "TypeTransitionRule",
	KindRangeTransitionRule: "RangeTransitionRule",
	KindRoleTransitionRule:  "RoleTransitionRule",
	KindClassDef:            "ClassDef",
	KindCommonDef:           "CommonDef",
	KindInheritsClause:      "InheritsClause",
	KindPermBlock:           "PermBlock",
	KindFileCon:             "FileCon",
	KindPortCon:             "PortCon",
	KindNetifCon:            "NetifCon",
	KindAttributeSet:        "AttributeSet",
	KindConstraint:          "Constraint",
	KindIfStmt:              "IfStmt",
	KindElseIfClause:        "ElseIfClause",
	KindElseClause:          "ElseClause",
	KindMacroCall:           "MacroCall",
	KindArgList:             "ArgList",
	KindModifier:            "Modifier",
	KindNameRef:             "NameRef",
	KindPath:                "Path",
	KindLiteral:             "Literal",
	KindWildcard:            "Wildcard",
	KindUnaryExpr:           "UnaryExpr",
	KindBinaryExpr:          "BinaryExpr",
	KindContext:             "Context",
	KindLevelRange:          "LevelRange",
	KindCategoryRange:       "CategoryRange",
	KindList:                "List",
	KindParen:               "Paren",
}

var keywords = map[string]SyntaxKind{
	"block":            KwBlock,
	"optional":         KwOptional,
	"in":               KwIn,
	"abstract":         KwAbstract,
	"extends":          KwExtends,
	"inherits":         KwInherits,
	"macro":            KwMacro,
	"type":             KwType,
	"type_attribute":   KwTypeAttribute,
	"role":             KwRole,
	"role_attribute":   KwRoleAttribute,
	"user":             KwUser,
	"user_attribute":   KwUserAttribute,
	"sensitivity":      KwSensitivity,
	"category":         KwCategory,
	"level_range":      KwLevelRange,
	"allow":            KwAllow,
	"audit_allow":      KwAuditAllow,
	"never_allow":      KwNeverAllow,
	"dont_audit":       KwDontAudit,
	"type_transition":  KwTypeTransition,
	"type_member":      KwTypeMember,
	"type_change":      KwTypeChange,
	"range_transition": KwRangeTransition,
	"role_transition":  KwRoleTransition,
	"class":            KwClass,
	"common":           KwCommon,
	"filecon":          KwFilecon,
	"portcon":          KwPortcon,
	"netifcon":         KwNetifcon,
	"attribute_set":    KwAttributeSet,
	"constrain":        KwConstrain,
	"mlsconstrain":     KwMlsconstrain,
	"if":               KwIf,
	"else":             KwElse,
	"elseif":           KwElseif,
}

var keywordNames = func() map[SyntaxKind]string {
	names := make(map[SyntaxKind]string, len(keywords))
	for text, kind := range keywords {
		names[kind] = text
	}
	return names
}()

// LookupKeyword returns the keyword kind spelled by text.
func LookupKeyword(text string) (SyntaxKind, bool) {
	kind, ok := keywords[text]
	return kind, ok
}

func (k SyntaxKind) String() string {
	var name string
	var ok bool
	switch {
	case k.IsToken():
		name, ok = tokenKindNames[k]
	case k.IsNode():
		name, ok = nodeKindNames[k]
	case k.IsKeyword():
		name, ok = keywordNames[k]
	}
	if ok {
		return name
	}
	return "Unknown"
}
