package catalog

import "solidario/internal/catalog/models"

// institutions enumerates the government bodies that register deliveries.
// Both lookup directions are derived from this one list, so a code and its
// name can never drift apart.
var institutions = []models.Institution{
	{Code: 1, Name: "Secretaría de Obras Sociales de la Esposa del Presidente"},
	{Code: 2, Name: "Ministerio de Educación"},
	{Code: 3, Name: "Ministerio de Salud Pública y Asistencia Social"},
	{Code: 4, Name: "Ministerio de Agricultura, Ganadería y Alimentación"},
	{Code: 5, Name: "Ministerio de Trabajo y Previsión Social"},
	{Code: 6, Name: "Ministerio de Economía"},
	{Code: 7, Name: "Secretaría de Seguridad Alimentaria y Nutricional"},
	{Code: 8, Name: "Secretaría de Bienestar Social"},
	{Code: 9, Name: "Fondo de Desarrollo Social"},
	{Code: 10, Name: "Ministerio de Desarrollo Social"},
	{Code: 11, Name: "Coordinadora Nacional para la Reducción de Desastres"},
	{Code: 12, Name: "Instituto Nacional de Estadística"},
}

var (
	institutionByCode map[int]string
	institutionByName map[string]int
)

func init() {
	institutionByCode = make(map[int]string, len(institutions))
	institutionByName = make(map[string]int, len(institutions))
	for _, inst := range institutions {
		if _, dup := institutionByCode[inst.Code]; dup {
			panic("catalog: duplicate institution code")
		}
		if _, dup := institutionByName[inst.Name]; dup {
			panic("catalog: duplicate institution name")
		}
		institutionByCode[inst.Code] = inst.Name
		institutionByName[inst.Name] = inst.Code
	}
}

// Institutions returns the enumeration in code order.
func Institutions() []models.Institution {
	out := make([]models.Institution, len(institutions))
	copy(out, institutions)
	return out
}

// InstitutionName resolves an institution code to its display name.
func InstitutionName(code int) (string, bool) {
	name, ok := institutionByCode[code]
	return name, ok
}

// InstitutionCode resolves a display name back to its code.
func InstitutionCode(name string) (int, bool) {
	code, ok := institutionByName[name]
	return code, ok
}
