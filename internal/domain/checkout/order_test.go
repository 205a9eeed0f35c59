package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	order, err := NewOrder("SO-1001")
	require.NoError(t, err)

	assert.NotEqual(t, "", order.ID.String())
	assert.Equal(t, "SO-1001", order.Number)
	assert.True(t, order.Total.IsZero())
}

func TestNewOrder_EmptyNumber(t *testing.T) {
	_, err := NewOrder("")
	assert.Error(t, err)
}

func TestOrder_Metadata(t *testing.T) {
	order, err := NewOrder("SO-1")
	require.NoError(t, err)

	order.SetMeta("key_a", "1")
	order.SetMeta("key_b", "2")
	assert.Equal(t, "1", order.MetaValue("key_a"))

	order.DeleteMeta("key_a")
	assert.Empty(t, order.MetaValue("key_a"))

	meta := order.Metadata()
	assert.Equal(t, map[string]string{"key_b": "2"}, meta)

	// Returned map is a copy
	meta["key_b"] = "mutated"
	assert.Equal(t, "2", order.MetaValue("key_b"))
}

func TestOrder_AdditionalFields(t *testing.T) {
	order, err := NewOrder("SO-1")
	require.NoError(t, err)

	order.SetFieldValue(GroupBilling, "f1", "v1")
	order.SetFieldValue(GroupOther, "f1", "v2")

	assert.Equal(t, "v1", order.FieldValue(GroupBilling, "f1"))
	assert.Equal(t, "v2", order.FieldValue(GroupOther, "f1"))
	assert.Empty(t, order.FieldValue(GroupShipping, "f1"))
	assert.True(t, order.HasField("f1"))

	order.DeleteField(GroupBilling, "f1")
	assert.Empty(t, order.FieldValue(GroupBilling, "f1"))
	assert.True(t, order.HasField("f1"))

	order.DeleteField(GroupOther, "f1")
	assert.False(t, order.HasField("f1"))

	// Deleting an absent entry is harmless
	order.DeleteField(GroupShipping, "missing")
}

func TestSubmission_Value(t *testing.T) {
	sub := &Submission{Values: map[string]string{"f1": "v1"}}
	assert.Equal(t, "v1", sub.Value("f1"))
	assert.Empty(t, sub.Value("missing"))

	var nilSub *Submission
	assert.Empty(t, nilSub.Value("f1"))
}

func TestSubmission_Bool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"YES", true},
		{"on", true},
		{" 1 ", true},
		{"0", false},
		{"false", false},
		{"", false},
		{"banana", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			sub := &Submission{Values: map[string]string{"flag": tt.value}}
			assert.Equal(t, tt.want, sub.Bool("flag"))
		})
	}
}

func TestFieldErrors(t *testing.T) {
	errs := NewFieldErrors()
	assert.False(t, errs.HasErrors())

	errs.Add("f1", "REQUIRED", "f1 is required")
	errs.Add("f2", "INVALID", "f2 is invalid")
	errs.Add("f1", "INVALID", "f1 is invalid")

	assert.True(t, errs.HasErrors())
	assert.Len(t, errs.Errors(), 3)
	assert.Len(t, errs.ForField("f1"), 2)
	assert.Len(t, errs.ForField("f3"), 0)
}

func TestHideFieldFilter(t *testing.T) {
	filter := HideFieldFilter("company")
	fields := []LocaleField{
		{ID: "company", Required: true},
		{ID: "city", Required: true},
	}

	out := filter(fields)
	assert.True(t, out[0].Hidden)
	assert.False(t, out[0].Required)
	assert.False(t, out[1].Hidden)
}
