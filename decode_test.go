package graphson_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobertWHurst/graphson"
)

func ref(id string) *graphson.Object {
	return graphson.ObjectOf("$ref", id)
}

func TestDecodeSharedReference(t *testing.T) {
	doc := graphson.ObjectOf(
		"$defs", graphson.ObjectOf("*1", graphson.ObjectOf("name", "Joe")),
		"owner", ref("*1"),
		"creator", ref("*1"),
	)

	out, err := graphson.Decode(doc)
	require.NoError(t, err)

	owner := field(t, out, "owner")
	assert.Same(t, owner, field(t, out, "creator"))
	assert.Equal(t, "Joe", field(t, owner, "name"))
	assert.False(t, out.(*graphson.Object).Has("$defs"))
}

func TestDecodeRootReference(t *testing.T) {
	doc := graphson.ObjectOf(
		"$defs", graphson.ObjectOf("*1", graphson.ObjectOf("self", ref("*1"))),
		"$ref", "*1",
	)

	out, err := graphson.Decode(doc)
	require.NoError(t, err)
	assert.Same(t, out, field(t, out, "self"))
}

func TestDecodeDuplicatedRootContent(t *testing.T) {
	// The root's content copied next to a definition of itself still decodes;
	// the cycle is then seated on the definition rather than on the root.
	doc := graphson.ObjectOf(
		"$defs", graphson.ObjectOf("*1", graphson.ObjectOf("self", ref("*1"))),
		"self", ref("*1"),
	)

	out, err := graphson.Decode(doc)
	require.NoError(t, err)

	self := field(t, out, "self")
	assert.Same(t, self, field(t, self, "self"))
}

func TestDecodeForwardAndMutualReferences(t *testing.T) {
	doc := graphson.ObjectOf(
		"$defs", graphson.ObjectOf(
			"*1", graphson.ObjectOf("name", "a", "next", ref("*2")),
			"*2", graphson.ObjectOf("name", "b", "next", ref("*1")),
		),
		"first", ref("*2"),
	)

	out, err := graphson.Decode(doc)
	require.NoError(t, err)

	b := field(t, out, "first")
	a := field(t, b, "next")
	assert.Equal(t, "b", field(t, b, "name"))
	assert.Equal(t, "a", field(t, a, "name"))
	assert.Same(t, b, field(t, a, "next"))
}

func TestDecodeArrayDefinition(t *testing.T) {
	doc := graphson.ObjectOf(
		"$defs", graphson.ObjectOf("*1", graphson.NewArray(1.0, ref("*1"))),
		"$ref", "*1",
	)

	out, err := graphson.Decode(doc)
	require.NoError(t, err)

	arr, ok := out.(*graphson.Array)
	require.True(t, ok)
	require.Equal(t, 2, arr.Len())
	assert.Equal(t, 1.0, arr.Items[0])
	assert.Same(t, arr, arr.Items[1])
}

func TestDecodeTypedValueInsideDefinition(t *testing.T) {
	doc := graphson.ObjectOf(
		"$defs", graphson.ObjectOf("*1", graphson.ObjectOf(
			"m", graphson.ObjectOf("$type", "Map", "$", graphson.NewArray(graphson.NewArray("self", ref("*1")))),
		)),
		"$ref", "*1",
	)

	out, err := graphson.Decode(doc)
	require.NoError(t, err)

	m, ok := field(t, out, "m").(*graphson.Map)
	require.True(t, ok)
	self, ok := m.Get("self")
	require.True(t, ok)
	assert.Same(t, out, self)
}

func TestDecodeTypedDefinition(t *testing.T) {
	doc := graphson.ObjectOf(
		"$defs", graphson.ObjectOf("*1", graphson.ObjectOf("$type", "Date", "$", 0.0)),
		"a", ref("*1"),
		"b", ref("*1"),
	)

	out, err := graphson.Decode(doc)
	require.NoError(t, err)

	want := time.UnixMilli(0).UTC()
	assert.Equal(t, want, field(t, out, "a"))
	assert.Equal(t, want, field(t, out, "b"))
}

func TestDecodeSharedTypedDefinition(t *testing.T) {
	// *2 is referenced from inside *1 before *1 is filled in, and its entries
	// point back at *1.
	doc := graphson.ObjectOf(
		"$defs", graphson.ObjectOf(
			"*1", graphson.ObjectOf("index", ref("*2")),
			"*2", graphson.ObjectOf("$type", "Map", "$", graphson.NewArray(
				graphson.NewArray("owner", ref("*1")),
			)),
		),
		"a", ref("*2"),
		"b", ref("*2"),
		"holder", ref("*1"),
	)

	out, err := graphson.Decode(doc)
	require.NoError(t, err)

	m, ok := field(t, out, "a").(*graphson.Map)
	require.True(t, ok)
	assert.Same(t, m, field(t, out, "b"))

	holder := field(t, out, "holder")
	assert.Same(t, m, field(t, holder, "index"))
	owner, ok := m.Get("owner")
	require.True(t, ok)
	assert.Same(t, holder, owner)
}

func TestDecodeUnreferencedTypedDefinitionIsChecked(t *testing.T) {
	doc := graphson.ObjectOf(
		"$defs", graphson.ObjectOf("*1", graphson.ObjectOf("$type", "Widget")),
		"a", 1.0,
	)

	_, err := graphson.Decode(doc)
	require.ErrorIs(t, err, graphson.ErrUnknownType)
}

func TestDecodeGenericMaps(t *testing.T) {
	doc := map[string]any{
		"$defs": map[string]any{
			"*1": map[string]any{"name": "Joe", "tags": []any{"a", "b"}},
		},
		"owner":   map[string]any{"$ref": "*1"},
		"creator": map[string]any{"$ref": "*1"},
		"when":    map[string]any{"$type": "Date", "$": "NaN"},
	}

	out, err := graphson.Decode(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{"creator", "owner", "when"}, out.(*graphson.Object).Keys())
	owner := field(t, out, "owner")
	assert.Same(t, owner, field(t, out, "creator"))
	assert.Equal(t, graphson.NewArray("a", "b"), field(t, owner, "tags"))
	assert.Equal(t, graphson.InvalidDate, field(t, out, "when"))
}

func TestDecodeDoesNotModifyDocument(t *testing.T) {
	doc := graphson.ObjectOf(
		"$defs", graphson.ObjectOf("*1", graphson.ObjectOf("name", "Joe")),
		"owner", ref("*1"),
	)

	_, err := graphson.Decode(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{"$defs", "owner"}, doc.Keys())
	assert.Equal(t, ref("*1"), field(t, doc, "owner"))
}

func TestDecodeLeaves(t *testing.T) {
	for _, v := range []any{nil, true, "s", 2.5} {
		out, err := graphson.Decode(v)
		require.NoError(t, err)
		assert.Equal(t, v, out)
	}
}

func TestDecodeDanglingReference(t *testing.T) {
	tests := []struct {
		name string
		doc  any
	}{
		{"no defs", graphson.ObjectOf("a", ref("*9"))},
		{"missing id", graphson.ObjectOf("$defs", graphson.ObjectOf("*1", graphson.NewObject()), "a", ref("*9"))},
		{"inside definition", graphson.ObjectOf("$defs", graphson.ObjectOf("*1", graphson.ObjectOf("x", ref("*9"))))},
		{"root reference", graphson.ObjectOf("$ref", "*9")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := graphson.Decode(tt.doc)
			require.ErrorIs(t, err, graphson.ErrDanglingReference)
			assert.Contains(t, err.Error(), `"*9"`)
		})
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := graphson.Decode(graphson.ObjectOf("w", graphson.ObjectOf("$type", "Widget", "$", 1.0)))
	require.ErrorIs(t, err, graphson.ErrUnknownType)
	assert.Contains(t, err.Error(), "Widget")
}

func TestDecodeMalformedDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  any
	}{
		{"defs not an object", graphson.ObjectOf("$defs", "nope")},
		{"definition is a reference", graphson.ObjectOf("$defs", graphson.ObjectOf("*1", ref("*2"), "*2", graphson.NewObject()))},
		{"definition carries defs", graphson.ObjectOf("$defs", graphson.ObjectOf("*1", graphson.ObjectOf("$defs", graphson.NewObject())))},
		{"typed definition refers to itself", graphson.ObjectOf(
			"$defs", graphson.ObjectOf("*1", graphson.ObjectOf("$type", "Set", "$", graphson.NewArray(ref("*1")))),
			"a", ref("*1"),
		)},
		{"definition is a leaf", graphson.ObjectOf("$defs", graphson.ObjectOf("*1", 1.0))},
		{"nested defs", graphson.ObjectOf("a", graphson.ObjectOf("$defs", graphson.NewObject()))},
		{"ref not a string", graphson.ObjectOf("a", graphson.ObjectOf("$ref", 1.0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := graphson.Decode(tt.doc)
			require.ErrorIs(t, err, graphson.ErrMalformedDocument)
		})
	}
}

func TestDecodeDepthLimit(t *testing.T) {
	codec := graphson.New(graphson.WithMaxDepth(5))

	doc := graphson.NewArray()
	current := doc
	for range 10 {
		next := graphson.NewArray()
		current.Append(next)
		current = next
	}

	_, err := codec.Decode(doc)
	require.ErrorIs(t, err, graphson.ErrDepthExceeded)
}
