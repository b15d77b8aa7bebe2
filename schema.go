package go_parquet

// schema.go implements the SchemaFlattener (spec section 4.5): a recursive
// sum-type schema node tree lowered, depth-first and left-to-right, into
// the flat SchemaElement list plus an ordered list of leaf
// descriptors carrying path, max repetition level, and max definition
// level. Grounded on spec section 4.5's traversal rules directly (the
// teacher file consumes an already-flattened *parquet.SchemaElement list
// rather than building one, so the flattening algorithm itself is
// original to this spec rather than lifted from chunk_reader.go); naming
// follows wolfeidau-arrow's record_reader.go ("Column", "Index",
// "MaxDefinitionLevel"/"MaxRepetitionLevel" accessor pattern).

// NodeKind is the closed tag of the schema node sum type.
type NodeKind int

const (
	KindPrimitive NodeKind = iota
	KindList
	KindMap
	KindStruct
)

// Node is a schema tree node. Exactly the fields relevant to Kind are
// populated; ownership of child nodes is exclusive (no sharing, no cycles).
type Node struct {
	Kind     NodeKind
	Name     string
	Optional bool

	// KindPrimitive
	PhysicalType Type
	LogicalType  LogicalType
	Encoding     Encoding
	Compression  CompressionCodec
	TypeLength   *int32

	// KindList
	Element *Node

	// KindMap
	Key   *Node
	Value *Node

	// KindStruct
	Fields []*Node
}

// LeafDescriptor is one flattened leaf column (spec section 3).
type LeafDescriptor struct {
	Path         []string
	MaxRepLevel  int
	MaxDefLevel  int
	PhysicalType Type
	TypeLength   *int32
	Encoding     Encoding
	Compression  CompressionCodec
	LogicalType  LogicalType
}

// FlattenResult is the SchemaFlattener's output (spec section 4.5).
type FlattenResult struct {
	Elements []*SchemaElement
	Leaves   []*LeafDescriptor
}

// FlattenSchema lowers an ordered sequence of top-level nodes into the flat
// metadata element list and leaf descriptors.
func FlattenSchema(roots []*Node) (*FlattenResult, error) {
	res := &FlattenResult{}
	f := &flattener{res: res, seenNames: map[string]map[string]bool{}}
	for _, n := range roots {
		if err := f.visit(n, nil, 0, 0); err != nil {
			return nil, err
		}
	}
	return res, nil
}

type flattener struct {
	res       *FlattenResult
	seenNames map[string]map[string]bool // scope-key -> field name -> seen
}

func repetitionOf(optional bool) FieldRepetitionType {
	if optional {
		return FieldRepetitionType_OPTIONAL
	}
	return FieldRepetitionType_REQUIRED
}

// scopeKey identifies the struct/group scope duplicate-name checks apply
// within: the joined path up to (not including) the field itself.
func scopeKey(path []string) string {
	key := ""
	for _, p := range path {
		key += p + "\x00"
	}
	return key
}

func (f *flattener) checkDuplicate(path []string, name string) error {
	key := scopeKey(path)
	m, ok := f.seenNames[key]
	if !ok {
		m = map[string]bool{}
		f.seenNames[key] = m
	}
	if m[name] {
		return schemaInvalidf("schema: duplicate field name %q", name)
	}
	m[name] = true
	return nil
}

func (f *flattener) visit(n *Node, path []string, repLevel, defLevel int) error {
	if n == nil {
		return schemaInvalidf("schema: nil node")
	}
	if err := f.checkDuplicate(path, n.Name); err != nil {
		return err
	}
	childPath := append(append([]string{}, path...), n.Name)

	switch n.Kind {
	case KindPrimitive:
		if n.PhysicalType == Type_FIXED_LEN_BYTE_ARRAY && n.TypeLength == nil {
			return schemaInvalidf("schema: %s is FIXED_LEN_BYTE_ARRAY without type_length", n.Name)
		}
		leafDef := defLevel
		if n.Optional {
			leafDef++
		}
		f.res.Elements = append(f.res.Elements, &SchemaElement{
			Name:          n.Name,
			Repetition:    repetitionOf(n.Optional),
			Type:          &n.PhysicalType,
			TypeLength:    n.TypeLength,
			ConvertedType: convertedTypeOf(n.LogicalType),
			LogicalType:   n.LogicalType,
		})
		f.res.Leaves = append(f.res.Leaves, &LeafDescriptor{
			Path:         childPath,
			MaxRepLevel:  repLevel,
			MaxDefLevel:  leafDef,
			PhysicalType: n.PhysicalType,
			TypeLength:   n.TypeLength,
			Encoding:     n.Encoding,
			Compression:  n.Compression,
			LogicalType:  n.LogicalType,
		})
		return nil

	case KindStruct:
		numChildren := int32(len(n.Fields))
		f.res.Elements = append(f.res.Elements, &SchemaElement{
			Name:        n.Name,
			Repetition:  repetitionOf(n.Optional),
			NumChildren: &numChildren,
		})
		nextDef := defLevel
		if n.Optional {
			nextDef++
		}
		for _, child := range n.Fields {
			if err := f.visit(child, childPath, repLevel, nextDef); err != nil {
				return err
			}
		}
		return nil

	case KindList:
		if n.Element == nil {
			return schemaInvalidf("schema: list %s has no element", n.Name)
		}
		one := int32(1)
		f.res.Elements = append(f.res.Elements, &SchemaElement{
			Name:          n.Name,
			Repetition:    repetitionOf(n.Optional),
			NumChildren:   &one,
			ConvertedType: convertedTypePtr(ConvertedType_LIST),
		})
		f.res.Elements = append(f.res.Elements, &SchemaElement{
			Name:        "list",
			Repetition:  FieldRepetitionType_REPEATED,
			NumChildren: &one,
		})
		nextDef := defLevel + 1
		if n.Optional {
			nextDef++
		}
		elem := *n.Element
		elem.Name = "element"
		return f.visit(&elem, append(childPath, "list"), repLevel+1, nextDef)

	case KindMap:
		if n.Key == nil || n.Value == nil {
			return schemaInvalidf("schema: map %s missing key or value", n.Name)
		}
		if n.Key.Optional {
			return schemaInvalidf("schema: map %s has an optional key", n.Name)
		}
		one := int32(1)
		two := int32(2)
		f.res.Elements = append(f.res.Elements, &SchemaElement{
			Name:          n.Name,
			Repetition:    repetitionOf(n.Optional),
			NumChildren:   &one,
			ConvertedType: convertedTypePtr(ConvertedType_MAP),
		})
		f.res.Elements = append(f.res.Elements, &SchemaElement{
			Name:        "key_value",
			Repetition:  FieldRepetitionType_REPEATED,
			NumChildren: &two,
		})
		nextDef := defLevel + 1
		if n.Optional {
			nextDef++
		}
		key := *n.Key
		key.Name = "key"
		key.Optional = false
		if err := f.visit(&key, append(childPath, "key_value"), repLevel+1, nextDef); err != nil {
			return err
		}
		value := *n.Value
		value.Name = "value"
		return f.visit(&value, append(childPath, "key_value"), repLevel+1, nextDef)

	default:
		return schemaInvalidf("schema: unknown node kind %d", n.Kind)
	}
}

func convertedTypePtr(c ConvertedType) *ConvertedType {
	return &c
}

func convertedTypeOf(lt LogicalType) *ConvertedType {
	if lt == LogicalTypeNone {
		return nil
	}
	return convertedTypePtr(ConvertedType(lt))
}
