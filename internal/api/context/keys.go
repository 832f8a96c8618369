package context

type Key string

const (
	Identity Key = "identity"
	Params   Key = "params"
)
