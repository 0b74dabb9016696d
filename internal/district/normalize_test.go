package district

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{name: "empty", raw: "", want: "", ok: false},
		{name: "blank", raw: "   ", want: "", ok: false},
		{name: "canonical passes through", raw: "PUNE", want: "PUNE", ok: true},
		{name: "lowercase input", raw: "nagpur", want: "NAGPUR", ok: true},
		{name: "official rename", raw: "Aurangabad", want: "CHHATRAPATI SAMBHAJINAGAR", ok: true},
		{name: "rename with district suffix", raw: "Osmanabad District", want: "DHARASHIV", ok: true},
		{name: "spelling variant", raw: "Gondiya", want: "GONDIA", ok: true},
		{name: "taluka suffix", raw: "Haveli Taluka", want: "PUNE", ok: true},
		{name: "taluk suffix", raw: "Baramati taluk", want: "PUNE", ok: true},
		{name: "tehsil suffix", raw: "Pandharpur Tehsil", want: "SOLAPUR", ok: true},
		{name: "stacked suffixes", raw: "Karad Taluka District", want: "SATARA", ok: true},
		{name: "city to district", raw: "Pimpri-Chinchwad", want: "PUNE", ok: true},
		{name: "metro settlement", raw: "Navi Mumbai", want: "THANE", ok: true},
		{name: "inner whitespace collapsed", raw: "  mumbai   suburban ", want: "MUMBAI SUBURBAN", ok: true},
		{name: "unknown kept uppercase", raw: "Bengaluru Urban", want: "BENGALURU URBAN", ok: true},
		{name: "suffix word alone kept", raw: "district", want: "DISTRICT", ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Aurangabad", "Ahmednagar District", "SHIRDI", "x district district",
		"Navi Mumbai", "thane", "Foo Tehsil Taluka", "vasai-virar", "Random Place",
	}
	for k := range DefaultRules().Entries() {
		inputs = append(inputs, k)
	}
	for _, in := range inputs {
		once, ok := Normalize(in)
		require.True(t, ok, in)
		twice, ok := Normalize(once)
		require.True(t, ok, in)
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestRulesTargetsAreCanonicalFixedPoints(t *testing.T) {
	for k, v := range DefaultRules().Entries() {
		assert.True(t, IsCanonical(v), "rule %q -> %q targets a non-canonical name", k, v)
		got, _ := Normalize(v)
		assert.Equal(t, v, got, "canonical %q is not a fixed point", v)
	}
	for _, c := range Canonical {
		got, _ := Normalize(c)
		assert.Equal(t, c, got)
	}
}

func TestNewRulesCleansKeys(t *testing.T) {
	r := NewRules(map[string]string{" old  name ": "new name"})
	got, ok := r.Normalize("OLD NAME district")
	assert.True(t, ok)
	assert.Equal(t, "NEW NAME", got)
	assert.Equal(t, 1, r.Len())
}

func TestReconcile(t *testing.T) {
	t.Run("exact canonical", func(t *testing.T) {
		m, ok := Reconcile("latur")
		require.True(t, ok)
		assert.True(t, m.Exact)
		assert.Equal(t, "LATUR", m.District)
		assert.Equal(t, 1.0, m.Similarity)
	})

	t.Run("rule hit counts as exact", func(t *testing.T) {
		m, ok := Reconcile("Aurangabad")
		require.True(t, ok)
		assert.True(t, m.Exact)
		assert.Equal(t, "CHHATRAPATI SAMBHAJINAGAR", m.District)
	})

	t.Run("typo resolves", func(t *testing.T) {
		m, ok := Reconcile("Kolhapr")
		require.True(t, ok)
		assert.False(t, m.Exact)
		assert.Equal(t, "KOLHAPUR", m.District)
		assert.GreaterOrEqual(t, m.Similarity, minSimilarity)
	})

	t.Run("too far", func(t *testing.T) {
		_, ok := Reconcile("Unknown District")
		assert.False(t, ok)
	})

	t.Run("empty", func(t *testing.T) {
		_, ok := Reconcile("")
		assert.False(t, ok)
	})
}
