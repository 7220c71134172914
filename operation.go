package crud

// Operation identifies one of the CRUD operations a module can expose.
type Operation int

const (
	// FetchList retrieves the resource collection (GET on the root URL).
	FetchList Operation = iota

	// FetchSingle retrieves one resource by id (GET on root/id).
	FetchSingle

	// Create posts a new resource (POST on the root URL).
	Create

	// Update partially updates one resource (PATCH on root/id).
	Update

	// Replace fully replaces one resource (PUT on root/id).
	Replace

	// Destroy deletes one resource (DELETE on root/id).
	Destroy
)

// AllOperations lists every operation, in the order modules generate them.
var AllOperations = []Operation{FetchList, FetchSingle, Create, Update, Replace, Destroy}

// String returns the action name for the operation ("fetchList",
// "create", ...). Mutation names append "Start", "Success" or "Error".
func (op Operation) String() string {
	switch op {
	case FetchList:
		return "fetchList"
	case FetchSingle:
		return "fetchSingle"
	case Create:
		return "create"
	case Update:
		return "update"
	case Replace:
		return "replace"
	case Destroy:
		return "destroy"
	default:
		return "unknown"
	}
}

// single reports whether the operation targets one resource by id.
func (op Operation) single() bool {
	switch op {
	case FetchSingle, Update, Replace, Destroy:
		return true
	default:
		return false
	}
}

// newOpSet builds the enabled-operation set from an allow-list.
// A nil or empty allow-list enables every operation.
func newOpSet(only []Operation) map[Operation]bool {
	ops := make(map[Operation]bool, len(AllOperations))
	if len(only) == 0 {
		for _, op := range AllOperations {
			ops[op] = true
		}
		return ops
	}
	for _, op := range only {
		ops[op] = true
	}
	return ops
}
