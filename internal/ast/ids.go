package ast

type (
	// главные сущности
	FileID    uint32
	StmtID    uint32
	ExprID    uint32
	TypeID    uint32
	PatternID uint32
	FuncID    uint32
	ScopeID   uint32
	// подсущности
	IdentID   uint32
	MemberID  uint32
	ObjectID  uint32
	ElementID uint32
	AttrID    uint32
)

const (
	NoFileID    FileID    = 0
	NoStmtID    StmtID    = 0
	NoExprID    ExprID    = 0
	NoTypeID    TypeID    = 0
	NoPatternID PatternID = 0
	NoFuncID    FuncID    = 0
	NoScopeID   ScopeID   = 0
	NoIdentID   IdentID   = 0
	NoMemberID  MemberID  = 0
	NoObjectID  ObjectID  = 0
	NoElementID ElementID = 0
	NoAttrID    AttrID    = 0
)

func (id FileID) IsValid() bool    { return id != NoFileID }
func (id StmtID) IsValid() bool    { return id != NoStmtID }
func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id TypeID) IsValid() bool    { return id != NoTypeID }
func (id PatternID) IsValid() bool { return id != NoPatternID }
func (id FuncID) IsValid() bool    { return id != NoFuncID }
func (id ScopeID) IsValid() bool   { return id != NoScopeID }
func (id IdentID) IsValid() bool   { return id != NoIdentID }
func (id MemberID) IsValid() bool  { return id != NoMemberID }
func (id ObjectID) IsValid() bool  { return id != NoObjectID }
func (id ElementID) IsValid() bool { return id != NoElementID }
func (id AttrID) IsValid() bool    { return id != NoAttrID }
