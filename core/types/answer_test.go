package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerValueScan(t *testing.T) {
	tests := []struct {
		name string
		src  interface{}
		want string
	}{
		{name: "text", src: `"Acme"`, want: `"Acme"`},
		{name: "bytes", src: []byte(`["Zoom"]`), want: `["Zoom"]`},
		{name: "integer", src: int64(3000001), want: `3000001`},
		{name: "float", src: float64(0.25), want: `0.25`},
		{name: "bool", src: true, want: `true`},
		{name: "null", src: nil, want: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v AnswerValue
			require.NoError(t, v.Scan(tt.src))
			assert.Equal(t, tt.want, v.String())
			assert.True(t, json.Valid(v))
		})
	}

	var v AnswerValue
	assert.Error(t, v.Scan(struct{}{}))
}

func TestAnswerValueValue(t *testing.T) {
	got, err := AnswerValue(`1200`).Value()
	require.NoError(t, err)
	assert.Equal(t, "1200", got)

	got, err = AnswerValue(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "null", got)

	_, err = AnswerValue(`{broken`).Value()
	assert.Error(t, err)
}

func TestAnswerValueJSON(t *testing.T) {
	var answers map[string]AnswerValue
	require.NoError(t, json.Unmarshal([]byte(`{"a":3000001,"b":"x","c":[1,2]}`), &answers))
	assert.Equal(t, `3000001`, answers["a"].String())

	out, err := json.Marshal(answers)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3000001,"b":"x","c":[1,2]}`, string(out))
}
