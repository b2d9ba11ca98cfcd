package models

// Field names used across the registration session. Person fields carry
// identity and demographics resolved from the registry or typed by the
// operator; delivery fields describe the benefit delivery itself and are the
// only fields the operator may lock.
const (
	FieldCUI                   = "cui"
	FieldFirstName             = "first_name"
	FieldSecondName            = "second_name"
	FieldThirdName             = "third_name"
	FieldFirstSurname          = "first_surname"
	FieldSecondSurname         = "second_surname"
	FieldThirdSurname          = "third_surname"
	FieldSex                   = "sex"
	FieldBirthDate             = "birth_date"
	FieldBirthDepartment       = "birth_department"
	FieldBirthMunicipality     = "birth_municipality"
	FieldEthnicGroup           = "ethnic_group"
	FieldLinguisticCommunity   = "linguistic_community"
	FieldLanguage              = "language"
	FieldHouseholdID           = "household_id"
	FieldResidenceDepartment   = "residence_department"
	FieldResidenceMunicipality = "residence_municipality"
	FieldAddress               = "address"
	FieldPhone                 = "phone"
	FieldSchoolingLevel        = "schooling_level"
	FieldDisability            = "disability"
	FieldWorks                 = "works"

	FieldInstitution          = "institution"
	FieldProgram              = "program"
	FieldBenefit              = "benefit"
	FieldDeliveryDepartment   = "delivery_department"
	FieldDeliveryMunicipality = "delivery_municipality"
	FieldDeliveryDate         = "delivery_date"
	FieldQuantity             = "quantity"
	FieldValue                = "value"
	FieldReference            = "reference"
)

// DefaultQuantity is the value the quantity field takes after a reset when it
// is not locked.
const DefaultQuantity = "1"

// PersonFields lists every person field, in form order. All of them clear
// unconditionally on reset.
var PersonFields = []string{
	FieldCUI,
	FieldFirstName,
	FieldSecondName,
	FieldThirdName,
	FieldFirstSurname,
	FieldSecondSurname,
	FieldThirdSurname,
	FieldSex,
	FieldBirthDate,
	FieldBirthDepartment,
	FieldBirthMunicipality,
	FieldEthnicGroup,
	FieldLinguisticCommunity,
	FieldLanguage,
	FieldHouseholdID,
	FieldResidenceDepartment,
	FieldResidenceMunicipality,
	FieldAddress,
	FieldPhone,
	FieldSchoolingLevel,
	FieldDisability,
	FieldWorks,
}

// DeliveryFields lists every delivery-attribute field, in form order. These
// are the lockable fields; locked ones keep their value across resets.
var DeliveryFields = []string{
	FieldInstitution,
	FieldProgram,
	FieldBenefit,
	FieldDeliveryDepartment,
	FieldDeliveryMunicipality,
	FieldDeliveryDate,
	FieldQuantity,
	FieldValue,
	FieldReference,
}

// CorePersonFields are the person fields that must be filled before
// submission when the registry did not answer them.
var CorePersonFields = []string{
	FieldCUI,
	FieldSex,
	FieldBirthDate,
	FieldFirstName,
	FieldFirstSurname,
	FieldBirthDepartment,
	FieldBirthMunicipality,
}

// FieldLabels maps field names to the Spanish labels shown to operators and
// used in validation messages.
var FieldLabels = map[string]string{
	FieldCUI:                   "CUI",
	FieldFirstName:             "Primer nombre",
	FieldSecondName:            "Segundo nombre",
	FieldThirdName:             "Tercer nombre",
	FieldFirstSurname:          "Primer apellido",
	FieldSecondSurname:         "Segundo apellido",
	FieldThirdSurname:          "Tercer apellido",
	FieldSex:                   "Sexo",
	FieldBirthDate:             "Fecha de nacimiento",
	FieldBirthDepartment:       "Departamento de nacimiento",
	FieldBirthMunicipality:     "Municipio de nacimiento",
	FieldEthnicGroup:           "Pueblo de pertenencia",
	FieldLinguisticCommunity:   "Comunidad lingüística",
	FieldLanguage:              "Idioma",
	FieldHouseholdID:           "Código de hogar",
	FieldResidenceDepartment:   "Departamento de residencia",
	FieldResidenceMunicipality: "Municipio de residencia",
	FieldAddress:               "Dirección",
	FieldPhone:                 "Teléfono",
	FieldSchoolingLevel:        "Escolaridad",
	FieldDisability:            "Discapacidad",
	FieldWorks:                 "Trabaja",

	FieldInstitution:          "Institución",
	FieldProgram:              "Programa",
	FieldBenefit:              "Beneficio",
	FieldDeliveryDepartment:   "Departamento de entrega",
	FieldDeliveryMunicipality: "Municipio de entrega",
	FieldDeliveryDate:         "Fecha de entrega",
	FieldQuantity:             "Cantidad",
	FieldValue:                "Valor",
	FieldReference:            "Referencia",
}

// Label returns the Spanish label for a field, falling back to the raw name.
func Label(field string) string {
	if l, ok := FieldLabels[field]; ok {
		return l
	}
	return field
}

// IsDeliveryField reports whether the field is a lockable delivery attribute.
func IsDeliveryField(field string) bool {
	for _, f := range DeliveryFields {
		if f == field {
			return true
		}
	}
	return false
}

// IsPersonField reports whether the field belongs to the person section.
func IsPersonField(field string) bool {
	for _, f := range PersonFields {
		if f == field {
			return true
		}
	}
	return false
}
