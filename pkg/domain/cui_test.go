package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCUIAcceptsReferenceValue(t *testing.T) {
	cui, err := ParseCUI("3004735750101")
	require.NoError(t, err)
	assert.Equal(t, "3004735750101", cui.String())
	assert.Equal(t, "3004 73575 0101", cui.Formatted())
	assert.Equal(t, 1, cui.Department())
	assert.Equal(t, 1, cui.Municipality())
}

func TestParseCUIAcceptsSpacedGrouping(t *testing.T) {
	cui, err := ParseCUI("3004 73575 0101")
	require.NoError(t, err)
	assert.Equal(t, "3004735750101", cui.String())
}

func TestParseCUIChecksum(t *testing.T) {
	// 1*2+2*3+3*4+4*5+5*6+6*7+7*8+8*9 = 240, 240 mod 11 = 9.
	assert.True(t, IsValidCUI("1234567890101"))
	assert.False(t, IsValidCUI("1234567880101"))
}

func TestParseCUIRejectsAnyBodyMutation(t *testing.T) {
	const valid = "3004735750101"
	for pos := 0; pos < 8; pos++ {
		for d := byte('0'); d <= '9'; d++ {
			if valid[pos] == d {
				continue
			}
			mutated := valid[:pos] + string(d) + valid[pos+1:]
			assert.False(t, IsValidCUI(mutated), "mutation at %d to %c should fail", pos, d)
		}
	}
}

func TestParseCUIRejectsMalformedInput(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too short", "300473575010"},
		{"too long", "30047357501011"},
		{"letters", "30047357501a1"},
		{"zero department", "3004735750001"},
		{"zero municipality", "3004735750100"},
		{"department out of range", "3004735752301"},
		{"municipality out of range", "3004735750118"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCUI(tc.input)
			assert.Error(t, err)
			assert.False(t, IsValidCUI(tc.input))
		})
	}
}

func TestMunicipalityCountTable(t *testing.T) {
	total := 0
	for dept := 1; dept <= DepartmentCount; dept++ {
		count := MunicipalityCount(dept)
		assert.Positive(t, count, "department %02d", dept)
		total += count
	}
	assert.Equal(t, 338, total)
	assert.Zero(t, MunicipalityCount(0))
	assert.Zero(t, MunicipalityCount(23))
}

func TestSanitizeCUIInput(t *testing.T) {
	assert.Equal(t, "3004735750101", SanitizeCUIInput("3004-73575 0101"))
	assert.Equal(t, "3004735750101", SanitizeCUIInput("30047357501019999"))
	assert.Equal(t, "", SanitizeCUIInput("abc"))
}

func TestParseCUINeverPanics(t *testing.T) {
	inputs := []string{"", " ", "ñ034 73575 0101", "0000000000000", fmt.Sprintf("%013d", 42)}
	for _, in := range inputs {
		assert.NotPanics(t, func() { _ = IsValidCUI(in) })
	}
}
