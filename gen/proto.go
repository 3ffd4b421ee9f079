package gen

import (
	"fmt"
	"strings"

	"github.com/cluon-io/cluon/odvd"
)

// protoTypeNames maps a cluon FieldType to the proto2 field type it is
// declared as in the generated .proto file, per SPEC_FULL.md §4.H's
// <proto_type> placeholder. Signed cluon types map to proto's ZigZag
// (`sintNN`) types, matching the wire representation component D already
// produces for them.
var protoTypeNames = map[odvd.FieldType]string{
	odvd.Bool:   "bool",
	odvd.Char:   "uint32",
	odvd.Uint8:  "uint32",
	odvd.Int8:   "sint32",
	odvd.Uint16: "uint32",
	odvd.Int16:  "sint32",
	odvd.Uint32: "uint32",
	odvd.Int32:  "sint32",
	odvd.Uint64: "uint64",
	odvd.Int64:  "sint64",
	odvd.Float:  "float",
	odvd.Double: "double",
	odvd.String: "string",
	odvd.Bytes:  "bytes",
}

// ProtoFile renders messages as a single .proto file, per §4.H: syntax=proto2,
// a fixed autogen banner, then one `message` block per MetaMessage with
// `optional <proto_type> <name> = <id>;` fields in declaration order.
func ProtoFile(messages []odvd.MetaMessage) string {
	var b strings.Builder
	b.WriteString("// Code generated by cluon-msc. DO NOT EDIT.\n")
	b.WriteString(`syntax = "proto2";` + "\n\n")

	for _, m := range messages {
		fmt.Fprintf(&b, "message %s {\n", underscoreName(m.LongName))
		for _, f := range m.Fields {
			fieldType := protoFieldType(f)
			fmt.Fprintf(&b, "    optional %s %s = %d;\n", fieldType, f.Name, f.ID)
		}
		b.WriteString("}\n\n")
	}
	return b.String()
}

func protoFieldType(f odvd.MetaField) string {
	if f.Type == odvd.Message {
		return underscoreName(f.MessageTypeName)
	}
	if name, ok := protoTypeNames[f.Type]; ok {
		return name
	}
	return "bytes"
}

func underscoreName(longName string) string {
	return strings.ReplaceAll(longName, ".", "_")
}
