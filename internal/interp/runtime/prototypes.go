package runtime

// ArrayProto, StringProto, and ObjectProto hold the Array.prototype/
// String.prototype/Object.prototype method tables, installed by
// internal/interp/builtins.Install at startup. They live here (rather
// than on the Array/String/Object types themselves) so a single shared
// table backs every instance, matching JS's actual prototype-object model
// instead of attaching methods per value.
var (
	ArrayProto  = NewObject()
	StringProto = NewObject()
	ObjectProto = NewObject()
)
