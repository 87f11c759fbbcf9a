package graphson_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobertWHurst/graphson"
)

func TestEncodeJSONNativeGraphIsUnchanged(t *testing.T) {
	root := graphson.ObjectOf(
		"a", 1.0,
		"b", graphson.NewArray("x", true, nil),
		"c", graphson.ObjectOf("d", "e"),
		"n", 42,
	)

	assert.Equal(t, `{"a":1,"b":["x",true,null],"c":{"d":"e"},"n":42}`, encodeJSON(t, root))
}

func TestEncodeLeafRoot(t *testing.T) {
	for _, v := range []any{nil, true, "text", 3.25} {
		doc, err := graphson.Encode(v)
		require.NoError(t, err)
		assert.Equal(t, v, doc)
	}
}

func TestEncodeSharedObject(t *testing.T) {
	joe := graphson.ObjectOf("name", "Joe")
	root := graphson.ObjectOf("owner", joe, "creator", joe)

	assert.Equal(t,
		`{"$defs":{"*1":{"name":"Joe"}},"owner":{"$ref":"*1"},"creator":{"$ref":"*1"}}`,
		encodeJSON(t, root),
	)
}

func TestEncodeSelfReference(t *testing.T) {
	a := graphson.NewObject()
	a.Set("self", a)

	assert.Equal(t,
		`{"$defs":{"*1":{"self":{"$ref":"*1"}}},"$ref":"*1"}`,
		encodeJSON(t, a),
	)
}

func TestEncodeIndirectCycle(t *testing.T) {
	a := graphson.NewObject()
	b := graphson.ObjectOf("parent", a)
	a.Set("child", b)
	root := graphson.ObjectOf("a", a)

	assert.Equal(t,
		`{"$defs":{"*1":{"child":{"parent":{"$ref":"*1"}}}},"a":{"$ref":"*1"}}`,
		encodeJSON(t, root),
	)
}

func TestEncodeIDsFollowRevisitOrder(t *testing.T) {
	x := graphson.ObjectOf("n", 1.0)
	y := graphson.ObjectOf("n", 2.0)
	root := graphson.ObjectOf("a", x, "b", y, "c", y, "d", x)

	// y is revisited before x, so it is allocated the first id.
	assert.Equal(t,
		`{"$defs":{"*2":{"n":1},"*1":{"n":2}},"a":{"$ref":"*2"},"b":{"$ref":"*1"},"c":{"$ref":"*1"},"d":{"$ref":"*2"}}`,
		encodeJSON(t, root),
	)
}

func TestEncodeSharedArray(t *testing.T) {
	list := graphson.NewArray(1.0, 2.0)
	root := graphson.ObjectOf("a", list, "b", list)

	assert.Equal(t,
		`{"$defs":{"*1":[1,2]},"a":{"$ref":"*1"},"b":{"$ref":"*1"}}`,
		encodeJSON(t, root),
	)
}

func TestEncodeArrayRootWithSharedItems(t *testing.T) {
	joe := graphson.ObjectOf("name", "Joe")
	root := graphson.NewArray(joe, joe)

	assert.Equal(t,
		`{"$defs":{"*2":[{"$ref":"*1"},{"$ref":"*1"}],"*1":{"name":"Joe"}},"$ref":"*2"}`,
		encodeJSON(t, root),
	)
}

func TestEncodeArrayRootContainingItself(t *testing.T) {
	root := graphson.NewArray()
	root.Append(root)

	assert.Equal(t, `{"$defs":{"*1":[{"$ref":"*1"}]},"$ref":"*1"}`, encodeJSON(t, root))
}

func TestEncodeArrayRootWithoutSharing(t *testing.T) {
	assert.Equal(t, `[1,"two",{"three":3}]`, encodeJSON(t, graphson.NewArray(1.0, "two", graphson.ObjectOf("three", 3.0))))
}

func TestEncodeMapEntriesShareIdentity(t *testing.T) {
	joe := graphson.ObjectOf("name", "Joe")
	m := graphson.NewMap(graphson.MapEntry{Key: "k", Value: joe})
	root := graphson.ObjectOf("m", m, "joe", joe)

	assert.Equal(t,
		`{"$defs":{"*1":{"name":"Joe"}},"m":{"$type":"Map","$":[["k",{"$ref":"*1"}]]},"joe":{"$ref":"*1"}}`,
		encodeJSON(t, root),
	)
}

func TestEncodeTypedRootCarriesDefs(t *testing.T) {
	joe := graphson.ObjectOf("name", "Joe")
	m := graphson.NewMap(
		graphson.MapEntry{Key: "a", Value: joe},
		graphson.MapEntry{Key: "b", Value: joe},
	)

	assert.Equal(t,
		`{"$defs":{"*1":{"name":"Joe"}},"$type":"Map","$":[["a",{"$ref":"*1"}],["b",{"$ref":"*1"}]]}`,
		encodeJSON(t, m),
	)
}

func TestEncodeDoesNotMutateInput(t *testing.T) {
	joe := graphson.ObjectOf("name", "Joe")
	root := graphson.ObjectOf("owner", joe, "creator", joe)
	root.Set("self", root)

	_, err := graphson.Encode(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"owner", "creator", "self"}, root.Keys())
	owner, _ := root.Get("owner")
	self, _ := root.Get("self")
	assert.Same(t, joe, owner)
	assert.Same(t, root, self)
	assert.Equal(t, []string{"name"}, joe.Keys())
}

func TestEncodeUnsupportedValue(t *testing.T) {
	root := graphson.ObjectOf("ok", 1.0, "ch", make(chan int))

	_, err := graphson.Encode(root)
	require.ErrorIs(t, err, graphson.ErrUnsupportedValue)
	assert.Contains(t, err.Error(), "chan int")
}

func TestEncodeUnsupportedValueInsideMap(t *testing.T) {
	m := graphson.NewMap(graphson.MapEntry{Key: "fn", Value: struct{}{}})

	_, err := graphson.Encode(graphson.ObjectOf("m", m))
	require.ErrorIs(t, err, graphson.ErrUnsupportedValue)
}

func TestEncodeReservedKey(t *testing.T) {
	for _, key := range []string{"$ref", "$type", "$defs"} {
		t.Run(key, func(t *testing.T) {
			root := graphson.ObjectOf("inner", graphson.ObjectOf(key, "x"))
			_, err := graphson.Encode(root)
			require.ErrorIs(t, err, graphson.ErrReservedKey)
		})
	}
}

func TestEncodeDollarKeyIsAllowed(t *testing.T) {
	assert.Equal(t, `{"$":1,"$other":2}`, encodeJSON(t, graphson.ObjectOf("$", 1.0, "$other", 2.0)))
}

func TestEncodeDepthLimit(t *testing.T) {
	codec := graphson.New(graphson.WithMaxDepth(10))

	root := graphson.NewObject()
	current := root
	for range 20 {
		next := graphson.NewObject()
		current.Set("next", next)
		current = next
	}

	_, err := codec.Encode(root)
	require.ErrorIs(t, err, graphson.ErrDepthExceeded)

	_, err = graphson.Encode(root)
	require.NoError(t, err)
}

func TestEncodeMapCycleHitsDepthLimit(t *testing.T) {
	codec := graphson.New(graphson.WithMaxDepth(100))
	m := graphson.NewMap()
	m.Set("self", m)

	_, err := codec.Encode(m)
	require.ErrorIs(t, err, graphson.ErrDepthExceeded)
}

func TestEncodeNilContainers(t *testing.T) {
	var obj *graphson.Object
	var arr *graphson.Array
	root := graphson.ObjectOf("obj", obj, "arr", arr)

	assert.Equal(t, `{"obj":null,"arr":null}`, encodeJSON(t, root))
}

func TestEncodeOutputIsValidJSON(t *testing.T) {
	a := graphson.NewObject()
	a.Set("self", a)
	a.Set("tags", graphson.NewSet("x", "y"))

	out := encodeJSON(t, a)
	assert.True(t, json.Valid([]byte(out)))
	assert.True(t, strings.HasPrefix(out, `{"$defs":`))
}
