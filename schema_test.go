package go_parquet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func primitive(name string, optional bool, typ Type) *Node {
	return &Node{Kind: KindPrimitive, Name: name, Optional: optional, PhysicalType: typ, LogicalType: LogicalTypeNone}
}

func TestFlattenSchemaSimpleStruct(t *testing.T) {
	root := &Node{
		Kind: KindStruct,
		Name: "document",
		Fields: []*Node{
			primitive("id", false, Type_INT64),
			primitive("name", true, Type_BYTE_ARRAY),
		},
	}

	res, err := FlattenSchema([]*Node{root})
	require.NoError(t, err)
	require.Len(t, res.Leaves, 2)

	assert.Equal(t, []string{"document", "id"}, res.Leaves[0].Path)
	assert.Equal(t, 0, res.Leaves[0].MaxRepLevel)
	assert.Equal(t, 0, res.Leaves[0].MaxDefLevel)

	assert.Equal(t, []string{"document", "name"}, res.Leaves[1].Path)
	assert.Equal(t, 0, res.Leaves[1].MaxRepLevel)
	assert.Equal(t, 1, res.Leaves[1].MaxDefLevel)
}

func TestFlattenSchemaListIncrementsBothLevels(t *testing.T) {
	root := &Node{
		Kind:    KindList,
		Name:    "tags",
		Element: primitive("element", false, Type_BYTE_ARRAY),
	}

	res, err := FlattenSchema([]*Node{root})
	require.NoError(t, err)
	require.Len(t, res.Leaves, 1)

	leaf := res.Leaves[0]
	assert.Equal(t, 1, leaf.MaxRepLevel)
	assert.Equal(t, 1, leaf.MaxDefLevel)
	assert.Equal(t, []string{"tags", "list", "element"}, leaf.Path)
}

func TestFlattenSchemaOptionalListAddsExtraDefLevel(t *testing.T) {
	root := &Node{
		Kind:     KindList,
		Name:     "tags",
		Optional: true,
		Element:  primitive("element", false, Type_BYTE_ARRAY),
	}

	res, err := FlattenSchema([]*Node{root})
	require.NoError(t, err)
	leaf := res.Leaves[0]
	assert.Equal(t, 1, leaf.MaxRepLevel)
	assert.Equal(t, 2, leaf.MaxDefLevel)
}

func TestFlattenSchemaMapRejectsOptionalKey(t *testing.T) {
	root := &Node{
		Kind:  KindMap,
		Name:  "attrs",
		Key:   primitive("key", true, Type_BYTE_ARRAY),
		Value: primitive("value", true, Type_BYTE_ARRAY),
	}
	_, err := FlattenSchema([]*Node{root})
	assert.Error(t, err)
}

func TestFlattenSchemaMapLevels(t *testing.T) {
	root := &Node{
		Kind:  KindMap,
		Name:  "attrs",
		Key:   primitive("key", false, Type_BYTE_ARRAY),
		Value: primitive("value", true, Type_INT32),
	}
	res, err := FlattenSchema([]*Node{root})
	require.NoError(t, err)
	require.Len(t, res.Leaves, 2)

	keyLeaf, valueLeaf := res.Leaves[0], res.Leaves[1]
	assert.Equal(t, 1, keyLeaf.MaxRepLevel)
	assert.Equal(t, 1, keyLeaf.MaxDefLevel)
	assert.Equal(t, 1, valueLeaf.MaxRepLevel)
	assert.Equal(t, 2, valueLeaf.MaxDefLevel)
}

func TestFlattenSchemaRejectsDuplicateFieldNames(t *testing.T) {
	root := &Node{
		Kind: KindStruct,
		Name: "document",
		Fields: []*Node{
			primitive("id", false, Type_INT64),
			primitive("id", false, Type_INT32),
		},
	}
	_, err := FlattenSchema([]*Node{root})
	assert.Error(t, err)
}

func TestFlattenSchemaRejectsFixedLenByteArrayWithoutLength(t *testing.T) {
	root := primitive("raw", false, Type_FIXED_LEN_BYTE_ARRAY)
	_, err := FlattenSchema([]*Node{root})
	assert.Error(t, err)
}

func TestFlattenSchemaNestedStructIncreasesDefLevel(t *testing.T) {
	inner := &Node{
		Kind:     KindStruct,
		Name:     "address",
		Optional: true,
		Fields: []*Node{
			primitive("city", true, Type_BYTE_ARRAY),
		},
	}
	root := &Node{
		Kind: KindStruct,
		Name: "person",
		Fields: []*Node{
			inner,
		},
	}
	res, err := FlattenSchema([]*Node{root})
	require.NoError(t, err)
	require.Len(t, res.Leaves, 1)
	assert.Equal(t, 2, res.Leaves[0].MaxDefLevel)
	assert.Equal(t, []string{"person", "address", "city"}, res.Leaves[0].Path)
}
