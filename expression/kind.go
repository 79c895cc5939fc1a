package expression

// Kind identifies the node type of an expression.
type Kind int

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go
const (
	KindParameter Kind = iota
	KindConstant
	KindNew
	KindMember
	KindCall
	KindConvert
	KindMap
	KindDispatch
	KindMemberInit
	KindLambda
	KindSelect
	KindSelectEntries
	KindUnwrap
	KindWrap
	KindGuard
	KindCoalesce
	KindTypeSwitch
	KindTrack
)
