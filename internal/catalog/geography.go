// Package catalog holds the static reference tables of the portal: the
// political geography of Guatemala and the participating institutions. Both
// are fixed enumerations, so they live in code rather than the database.
package catalog

import (
	"sort"

	"solidario/internal/catalog/models"
)

// departments lists the 22 departments with their municipalities. Codes are
// positional: department N is departments[N-1], municipality M of a
// department is Municipalities[M-1]. The per-department municipality counts
// must agree with the CUI validation table in pkg/domain.
var departments = []models.Department{
	dept(1, "Guatemala",
		"Guatemala", "Santa Catarina Pinula", "San José Pinula", "San José del Golfo",
		"Palencia", "Chinautla", "San Pedro Ayampuc", "Mixco",
		"San Pedro Sacatepéquez", "San Juan Sacatepéquez", "San Raymundo", "Chuarrancho",
		"Fraijanes", "Amatitlán", "Villa Nueva", "Villa Canales",
		"San Miguel Petapa"),
	dept(2, "El Progreso",
		"Guastatoya", "Morazán", "San Agustín Acasaguastlán", "San Cristóbal Acasaguastlán",
		"El Jícaro", "Sansare", "Sanarate", "San Antonio La Paz"),
	dept(3, "Sacatepéquez",
		"Antigua Guatemala", "Jocotenango", "Pastores", "Sumpango",
		"Santo Domingo Xenacoj", "Santiago Sacatepéquez", "San Bartolomé Milpas Altas", "San Lucas Sacatepéquez",
		"Santa Lucía Milpas Altas", "Magdalena Milpas Altas", "Santa María de Jesús", "Ciudad Vieja",
		"San Miguel Dueñas", "San Juan Alotenango", "San Antonio Aguas Calientes", "Santa Catarina Barahona"),
	dept(4, "Chimaltenango",
		"Chimaltenango", "San José Poaquil", "San Martín Jilotepeque", "San Juan Comalapa",
		"Santa Apolonia", "Tecpán Guatemala", "Patzún", "San Miguel Pochuta",
		"Patzicía", "Santa Cruz Balanyá", "Acatenango", "San Pedro Yepocapa",
		"San Andrés Itzapa", "Parramos", "Zaragoza", "El Tejar"),
	dept(5, "Escuintla",
		"Escuintla", "Santa Lucía Cotzumalguapa", "La Democracia", "Siquinalá",
		"Masagua", "Tiquisate", "La Gomera", "Guanagazapa",
		"San José", "Iztapa", "Palín", "San Vicente Pacaya",
		"Nueva Concepción"),
	dept(6, "Santa Rosa",
		"Cuilapa", "Barberena", "Santa Rosa de Lima", "Casillas",
		"San Rafael Las Flores", "Oratorio", "San Juan Tecuaco", "Chiquimulilla",
		"Taxisco", "Santa María Ixhuatán", "Guazacapán", "Santa Cruz Naranjo",
		"Pueblo Nuevo Viñas", "Nueva Santa Rosa"),
	dept(7, "Sololá",
		"Sololá", "San José Chacayá", "Santa María Visitación", "Santa Lucía Utatlán",
		"Nahualá", "Santa Catarina Ixtahuacán", "Santa Clara La Laguna", "Concepción",
		"San Andrés Semetabaj", "Panajachel", "Santa Catarina Palopó", "San Antonio Palopó",
		"San Lucas Tolimán", "Santa Cruz La Laguna", "San Pablo La Laguna", "San Marcos La Laguna",
		"San Juan La Laguna", "San Pedro La Laguna", "Santiago Atitlán"),
	dept(8, "Totonicapán",
		"Totonicapán", "San Cristóbal Totonicapán", "San Francisco El Alto", "San Andrés Xecul",
		"Momostenango", "Santa María Chiquimula", "Santa Lucía La Reforma", "San Bartolo"),
	dept(9, "Quetzaltenango",
		"Quetzaltenango", "Salcajá", "Olintepeque", "San Carlos Sija",
		"Sibilia", "Cabricán", "Cajolá", "San Miguel Sigüilá",
		"San Juan Ostuncalco", "San Mateo", "Concepción Chiquirichapa", "San Martín Sacatepéquez",
		"Almolonga", "Cantel", "Huitán", "Zunil",
		"Colomba", "San Francisco La Unión", "El Palmar", "Coatepeque",
		"Génova", "Flores Costa Cuca", "La Esperanza", "Palestina de Los Altos"),
	dept(10, "Suchitepéquez",
		"Mazatenango", "Cuyotenango", "San Francisco Zapotitlán", "San Bernardino",
		"San José El Ídolo", "Santo Domingo Suchitepéquez", "San Lorenzo", "Samayac",
		"San Pablo Jocopilas", "San Antonio Suchitepéquez", "San Miguel Panán", "San Gabriel",
		"Chicacao", "Patulul", "Santa Bárbara", "San Juan Bautista",
		"Santo Tomás La Unión", "Zunilito", "Pueblo Nuevo", "Río Bravo",
		"San José La Máquina"),
	dept(11, "Retalhuleu",
		"Retalhuleu", "San Sebastián", "Santa Cruz Muluá", "San Martín Zapotitlán",
		"San Felipe", "San Andrés Villa Seca", "Champerico", "Nuevo San Carlos",
		"El Asintal"),
	dept(12, "San Marcos",
		"San Marcos", "San Pedro Sacatepéquez", "San Antonio Sacatepéquez", "Comitancillo",
		"San Miguel Ixtahuacán", "Concepción Tutuapa", "Tacaná", "Sibinal",
		"Tajumulco", "Tejutla", "San Rafael Pie de la Cuesta", "Nuevo Progreso",
		"El Tumbador", "El Rodeo", "Malacatán", "Catarina",
		"Ayutla", "Ocós", "San Pablo", "El Quetzal",
		"La Reforma", "Pajapita", "Ixchiguán", "San José Ojetenam",
		"San Cristóbal Cucho", "Sipacapa", "Esquipulas Palo Gordo", "Río Blanco",
		"San Lorenzo", "La Blanca"),
	dept(13, "Huehuetenango",
		"Huehuetenango", "Chiantla", "Malacatancito", "Cuilco",
		"Nentón", "San Pedro Necta", "Jacaltenango", "San Pedro Soloma",
		"San Ildefonso Ixtahuacán", "Santa Bárbara", "La Libertad", "La Democracia",
		"San Miguel Acatán", "San Rafael La Independencia", "Todos Santos Cuchumatán", "San Juan Atitán",
		"Santa Eulalia", "San Mateo Ixtatán", "Colotenango", "San Sebastián Huehuetenango",
		"Tectitán", "Concepción Huista", "San Juan Ixcoy", "San Antonio Huista",
		"San Sebastián Coatán", "Santa Cruz Barillas", "Aguacatán", "San Rafael Petzal",
		"San Gaspar Ixchil", "Santiago Chimaltenango", "Santa Ana Huista", "Unión Cantinil"),
	dept(14, "Quiché",
		"Santa Cruz del Quiché", "Chiché", "Chinique", "Zacualpa",
		"Chajul", "Chichicastenango", "Patzité", "San Antonio Ilotenango",
		"San Pedro Jocopilas", "Cunén", "San Juan Cotzal", "Joyabaj",
		"Nebaj", "San Andrés Sajcabajá", "Uspantán", "Sacapulas",
		"San Bartolomé Jocotenango", "Canillá", "Chicamán", "Ixcán",
		"Pachalum"),
	dept(15, "Baja Verapaz",
		"Salamá", "San Miguel Chicaj", "Rabinal", "Cubulco",
		"Granados", "Santa Cruz El Chol", "San Jerónimo", "Purulhá"),
	dept(16, "Alta Verapaz",
		"Cobán", "Santa Cruz Verapaz", "San Cristóbal Verapaz", "Tactic",
		"Tamahú", "Tucurú", "Panzós", "Senahú",
		"San Pedro Carchá", "San Juan Chamelco", "Lanquín", "Santa María Cahabón",
		"Chisec", "Chahal", "Fray Bartolomé de las Casas", "Santa Catalina La Tinta",
		"Raxruhá"),
	dept(17, "Petén",
		"Flores", "San José", "San Benito", "San Andrés",
		"La Libertad", "San Francisco", "Santa Ana", "Dolores",
		"San Luis", "Sayaxché", "Melchor de Mencos", "Poptún",
		"Las Cruces", "El Chal"),
	dept(18, "Izabal",
		"Puerto Barrios", "Livingston", "El Estor", "Morales",
		"Los Amates"),
	dept(19, "Zacapa",
		"Zacapa", "Estanzuela", "Río Hondo", "Gualán",
		"Teculután", "Usumatlán", "Cabañas", "San Diego",
		"La Unión", "Huité", "San Jorge"),
	dept(20, "Chiquimula",
		"Chiquimula", "San José La Arada", "San Juan Ermita", "Jocotán",
		"Camotán", "Olopa", "Esquipulas", "Concepción Las Minas",
		"Quezaltepeque", "San Jacinto", "Ipala"),
	dept(21, "Jalapa",
		"Jalapa", "San Pedro Pinula", "San Luis Jilotepeque", "San Manuel Chaparrón",
		"San Carlos Alzatate", "Monjas", "Mataquescuintla"),
	dept(22, "Jutiapa",
		"Jutiapa", "El Progreso", "Santa Catarina Mita", "Agua Blanca",
		"Asunción Mita", "Yupiltepeque", "Atescatempa", "Jerez",
		"El Adelanto", "Zapotitlán", "Comapa", "Jalpatagua",
		"Conguaco", "Moyuta", "Pasaco", "San José Acatempa",
		"Quesada"),
}

func dept(code int, name string, municipalities ...string) models.Department {
	munis := make([]models.Municipality, len(municipalities))
	for i, m := range municipalities {
		munis[i] = models.Municipality{Code: i + 1, Name: m}
	}
	return models.Department{Code: code, Name: name, Municipalities: munis}
}

// Departments returns the full geography, ordered by department code.
func Departments() []models.Department {
	out := make([]models.Department, len(departments))
	copy(out, departments)
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// DepartmentName resolves a department code to its display name.
func DepartmentName(code int) (string, bool) {
	if code < 1 || code > len(departments) {
		return "", false
	}
	return departments[code-1].Name, true
}

// MunicipalityName resolves a department and municipality code pair to the
// municipality's display name.
func MunicipalityName(department, municipality int) (string, bool) {
	if department < 1 || department > len(departments) {
		return "", false
	}
	munis := departments[department-1].Municipalities
	if municipality < 1 || municipality > len(munis) {
		return "", false
	}
	return munis[municipality-1].Name, true
}
