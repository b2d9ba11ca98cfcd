package models

import "strings"

// NameParts is a full name distributed into the registry's given-name and
// surname slots.
type NameParts struct {
	FirstName     string
	SecondName    string
	ThirdName     string
	FirstSurname  string
	SecondSurname string
	ThirdSurname  string
}

// SplitFullName distributes a registry full name into name parts using a
// positional heuristic keyed by word count. Guatemalan registry names list
// given names first and surnames last, but carry no separator, so the split
// is by convention:
//
//	1 word  -> first name
//	2 words -> first name + first surname
//	3 words -> first name + two surnames
//	4 words -> two given names + two surnames
//	5 words -> three given names + two surnames
//	6 words -> three given names + three surnames
//
// Longer names keep the first word as first name and the last two words as
// surnames; interior words fill the remaining given-name slots and any
// overflow is dropped.
func SplitFullName(fullName string) NameParts {
	words := strings.Fields(fullName)
	switch len(words) {
	case 0:
		return NameParts{}
	case 1:
		return NameParts{FirstName: words[0]}
	case 2:
		return NameParts{FirstName: words[0], FirstSurname: words[1]}
	case 3:
		return NameParts{FirstName: words[0], FirstSurname: words[1], SecondSurname: words[2]}
	case 4:
		return NameParts{
			FirstName: words[0], SecondName: words[1],
			FirstSurname: words[2], SecondSurname: words[3],
		}
	case 5:
		return NameParts{
			FirstName: words[0], SecondName: words[1], ThirdName: words[2],
			FirstSurname: words[3], SecondSurname: words[4],
		}
	case 6:
		return NameParts{
			FirstName: words[0], SecondName: words[1], ThirdName: words[2],
			FirstSurname: words[3], SecondSurname: words[4], ThirdSurname: words[5],
		}
	}

	parts := NameParts{
		FirstName:     words[0],
		FirstSurname:  words[len(words)-2],
		SecondSurname: words[len(words)-1],
	}
	interior := words[1 : len(words)-2]
	if len(interior) > 0 {
		parts.SecondName = interior[0]
	}
	if len(interior) > 1 {
		parts.ThirdName = interior[1]
	}
	return parts
}
