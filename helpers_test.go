package graphson_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RobertWHurst/graphson"
)

func encodeJSON(t *testing.T, v any) string {
	t.Helper()
	doc, err := graphson.Encode(v)
	require.NoError(t, err)
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(data)
}

func roundTrip(t *testing.T, v any) any {
	t.Helper()
	doc, err := graphson.Encode(v)
	require.NoError(t, err)
	out, err := graphson.Decode(doc)
	require.NoError(t, err)
	return out
}

func field(t *testing.T, v any, key string) any {
	t.Helper()
	obj, ok := v.(*graphson.Object)
	require.Truef(t, ok, "expected *graphson.Object, got %T", v)
	value, ok := obj.Get(key)
	require.Truef(t, ok, "missing key %q", key)
	return value
}
