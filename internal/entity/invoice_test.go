package entity

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonKeys(t *testing.T, v any) []string {
	t.Helper()
	typ := reflect.TypeOf(v)
	keys := make([]string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("json")
		require.NotContains(t, tag, "omitempty", typ.Field(i).Name)
		keys = append(keys, strings.Split(tag, ",")[0])
	}
	return keys
}

func TestEmptyRecordSerialisesEveryKey(t *testing.T) {
	b, err := json.Marshal(InvoiceRecord{})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range jsonKeys(t, InvoiceRecord{}) {
		assert.Contains(t, m, k)
	}
	assert.Len(t, m, 26)
	assert.Equal(t, []any{}, m["goods"])
	assert.Equal(t, "", m["invoice_no"])
}

func TestGoodsLineSerialisesEveryKey(t *testing.T) {
	b, err := json.Marshal(GoodsLine{})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range jsonKeys(t, GoodsLine{}) {
		assert.Contains(t, m, k)
	}
	assert.Len(t, m, 11)
}

func TestUnmarshalNullGoods(t *testing.T) {
	var r InvoiceRecord
	require.NoError(t, json.Unmarshal([]byte(`{"invoice_no":"INV-9","goods":null}`), &r))
	assert.Equal(t, "INV-9", r.InvoiceNo)
	assert.NotNil(t, r.Goods)
	assert.Empty(t, r.Goods)
}

func TestFileStem(t *testing.T) {
	assert.Equal(t, "Unknown", NewInvoiceRecord().FileStem())
	assert.Equal(t, "INV-001", InvoiceRecord{InvoiceNo: "INV-001"}.FileStem())
}
