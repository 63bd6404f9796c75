package rpc

// Method is the closed enumeration of RPC methods the dispatcher accepts.
type Method int

const (
	Unknown Method = iota
	Ping
	Info
	Use
	Signup
	Signin
	Invalidate
	Authenticate
	Kill
	Live
	Set
	Unset
	Select
	Insert
	InsertRelation
	Create
	Upsert
	Update
	Merge
	Patch
	Delete
	Version
	Query
	Relate
	Run
	GraphQL
)

var methodNames = map[Method]string{
	Unknown:        "unknown",
	Ping:           "ping",
	Info:           "info",
	Use:            "use",
	Signup:         "signup",
	Signin:         "signin",
	Invalidate:     "invalidate",
	Authenticate:   "authenticate",
	Kill:           "kill",
	Live:           "live",
	Set:            "set",
	Unset:          "unset",
	Select:         "select",
	Insert:         "insert",
	InsertRelation: "insert_relation",
	Create:         "create",
	Upsert:         "upsert",
	Update:         "update",
	Merge:          "merge",
	Patch:          "patch",
	Delete:         "delete",
	Version:        "version",
	Query:          "query",
	Relate:         "relate",
	Run:            "run",
	GraphQL:        "graphql",
}

var namesToMethod = func() map[string]Method {
	m := make(map[string]Method, len(methodNames))
	for k, v := range methodNames {
		m[v] = k
	}
	return m
}()

// String implements fmt.Stringer.
func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseMethod maps a wire method name onto a Method, returning Unknown for
// anything not in the closed enumeration.
func ParseMethod(name string) Method {
	if m, ok := namesToMethod[name]; ok {
		return m
	}
	return Unknown
}

// mutatingMethods is the set execute_immut refuses with MethodNotFound.
var mutatingMethods = map[Method]bool{
	Use:          true,
	Signup:       true,
	Signin:       true,
	Invalidate:   true,
	Authenticate: true,
	Kill:         true,
	Live:         true,
	Set:          true,
	Unset:        true,
}

// IsMutating reports whether m may mutate session or variable state.
func IsMutating(m Method) bool { return mutatingMethods[m] }
