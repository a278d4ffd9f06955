package ast

type (
	// главные сущности
	StmtID  uint32
	ExprID  uint32
	PatID   uint32
	FuncID  uint32
	ClassID uint32
	// подсущности
	PayloadID uint32
)

const (
	NoStmtID    StmtID    = 0
	NoExprID    ExprID    = 0
	NoPatID     PatID     = 0
	NoFuncID    FuncID    = 0
	NoClassID   ClassID   = 0
	NoPayloadID PayloadID = 0
)

func (id StmtID) IsValid() bool    { return id != NoStmtID }
func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id PatID) IsValid() bool     { return id != NoPatID }
func (id FuncID) IsValid() bool    { return id != NoFuncID }
func (id ClassID) IsValid() bool   { return id != NoClassID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }

// NodeFlags mark nodes touched by a transform.
// The emitter copies clean nodes from source and reprints the rest.
type NodeFlags uint8

const (
	// FlagSynthetic marks a node created by a transform; it has no source text.
	FlagSynthetic NodeFlags = 1 << iota
	// FlagRewritten marks an original node whose children were replaced.
	FlagRewritten
)

// Dirty reports whether the node cannot be copied verbatim from source.
func (f NodeFlags) Dirty() bool { return f&(FlagSynthetic|FlagRewritten) != 0 }
