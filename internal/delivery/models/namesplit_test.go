package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitFullNameByWordCount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want NameParts
	}{
		{
			name: "one word",
			in:   "Maria",
			want: NameParts{FirstName: "Maria"},
		},
		{
			name: "two words",
			in:   "Maria Lopez",
			want: NameParts{FirstName: "Maria", FirstSurname: "Lopez"},
		},
		{
			name: "three words",
			in:   "Maria Lopez Garcia",
			want: NameParts{FirstName: "Maria", FirstSurname: "Lopez", SecondSurname: "Garcia"},
		},
		{
			name: "four words",
			in:   "Maria Jose Lopez Garcia",
			want: NameParts{
				FirstName: "Maria", SecondName: "Jose",
				FirstSurname: "Lopez", SecondSurname: "Garcia",
			},
		},
		{
			name: "five words",
			in:   "Maria Jose Elena Lopez Garcia",
			want: NameParts{
				FirstName: "Maria", SecondName: "Jose", ThirdName: "Elena",
				FirstSurname: "Lopez", SecondSurname: "Garcia",
			},
		},
		{
			name: "six words",
			in:   "Maria Jose Elena Lopez Garcia Paz",
			want: NameParts{
				FirstName: "Maria", SecondName: "Jose", ThirdName: "Elena",
				FirstSurname: "Lopez", SecondSurname: "Garcia", ThirdSurname: "Paz",
			},
		},
		{
			name: "seven words keeps last two as surnames",
			in:   "Maria Jose Elena Sofia Cruz Lopez Garcia",
			want: NameParts{
				FirstName: "Maria", SecondName: "Jose", ThirdName: "Elena",
				FirstSurname: "Lopez", SecondSurname: "Garcia",
			},
		},
		{
			name: "empty",
			in:   "",
			want: NameParts{},
		},
		{
			name: "extra whitespace ignored",
			in:   "  Maria   Lopez  ",
			want: NameParts{FirstName: "Maria", FirstSurname: "Lopez"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitFullName(tt.in))
		})
	}
}
