// Mock citizen registry for local development and e2e tests. Serves the
// two-tier person lookup API the portal consumes, with deterministic
// synthetic data plus a handful of magic CUIs that force specific upstream
// behaviors (not found, server error, partial record, slow answer).
package main

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	defaultPort      = "8081"
	defaultLatencyMs = "50"
)

// Magic CUIs. All of them pass the portal's checksum validation, so they
// reach this mock instead of being rejected client-side.
const (
	cuiNotFound    = "1000000020101" // always 404
	cuiServerError = "2000000040101" // always 500
	cuiPartial     = "3000000060101" // full record with demographic gaps
	cuiSlow        = "4000000080101" // answers after 3s
)

// BasicPerson is the first-tier lookup answer.
type BasicPerson struct {
	CUI      string `json:"cui"`
	FullName string `json:"full_name"`
	Sex      string `json:"sex"`
}

// FullPerson is the second-tier answer with the complete demographic
// profile. Empty fields mean the registry has no answer and the portal
// opens them for manual capture.
type FullPerson struct {
	CUI      string `json:"cui"`
	FullName string `json:"full_name"`
	Sex      string `json:"sex"`

	BirthDate         string `json:"birth_date,omitempty"`
	BirthDepartment   string `json:"birth_department,omitempty"`
	BirthMunicipality string `json:"birth_municipality,omitempty"`

	EthnicGroup         string `json:"ethnic_group,omitempty"`
	LinguisticCommunity string `json:"linguistic_community,omitempty"`
	Language            string `json:"language,omitempty"`

	HouseholdID string `json:"household_id,omitempty"`

	ResidenceDepartment   string `json:"residence_department,omitempty"`
	ResidenceMunicipality string `json:"residence_municipality,omitempty"`
	Address               string `json:"address,omitempty"`
	Phone                 string `json:"phone,omitempty"`

	SchoolingLevel string `json:"schooling_level,omitempty"`
	Disability     string `json:"disability,omitempty"`
	Works          string `json:"works,omitempty"`

	CheckedAt string `json:"checked_at"`
}

var latencyMs = getEnvInt("LATENCY_MS", defaultLatencyMs)

func main() {
	port := getEnv("PORT", defaultPort)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /v1/persons/{cui}", handleBasic)
	mux.HandleFunc("GET /v1/persons/{cui}/full", handleFull)

	log.Printf("mock citizen registry listening on port %s (latency %dms)", port, latencyMs)
	log.Printf("magic CUIs: not-found=%s server-error=%s partial=%s slow=%s",
		cuiNotFound, cuiServerError, cuiPartial, cuiSlow)

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "citizen-registry",
	})
}

func handleBasic(w http.ResponseWriter, r *http.Request) {
	cui := r.PathValue("cui")
	person, status := resolve(cui)
	log.Printf("basic lookup %s -> %d", cui, status)
	if status != http.StatusOK {
		writeError(w, status)
		return
	}
	writeJSON(w, http.StatusOK, BasicPerson{CUI: person.CUI, FullName: person.FullName, Sex: person.Sex})
}

func handleFull(w http.ResponseWriter, r *http.Request) {
	cui := r.PathValue("cui")
	person, status := resolve(cui)
	log.Printf("full lookup %s -> %d", cui, status)
	if status != http.StatusOK {
		writeError(w, status)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

// resolve applies the magic-CUI table first, then falls back to
// deterministic generation. The latency simulation happens here so both
// tiers behave the same.
func resolve(cui string) (FullPerson, int) {
	time.Sleep(time.Duration(latencyMs) * time.Millisecond)

	switch cui {
	case cuiNotFound:
		return FullPerson{}, http.StatusNotFound
	case cuiServerError:
		return FullPerson{}, http.StatusInternalServerError
	case cuiSlow:
		time.Sleep(3 * time.Second)
	case cuiPartial:
		return FullPerson{
			CUI:       cui,
			FullName:  "ROSA TZUL",
			Sex:       "Mujer",
			BirthDate: "1970-05-02",
			CheckedAt: time.Now().UTC().Format(time.RFC3339),
		}, http.StatusOK
	}
	if len(cui) != 13 {
		return FullPerson{}, http.StatusNotFound
	}
	return generatePerson(cui), http.StatusOK
}

var (
	givenNames = [][]string{
		{"JOSE", "CARLOS", "LUIS", "MIGUEL", "PEDRO", "JUAN", "DIEGO", "MANUEL", "JORGE", "ANDRES"},
		{"MARIA", "ANA", "LUCIA", "ROSA", "CARMEN", "ELENA", "SOFIA", "MARTA", "JUANA", "GLORIA"},
	}
	surnames = []string{"LOPEZ", "GARCIA", "PEREZ", "MORALES", "HERNANDEZ", "TZUL", "CHOC", "XICAY", "RAMIREZ", "CASTILLO"}
)

// generatePerson derives a stable synthetic profile from the CUI, so
// repeated lookups and cache comparisons behave like a real registry. The
// issuing department and municipality encoded in the CUI double as the
// birth geography.
func generatePerson(cui string) FullPerson {
	hash := sha256.Sum256([]byte(cui))

	sexIdx := int(hash[0]) % 2
	sex := "Hombre"
	if sexIdx == 1 {
		sex = "Mujer"
	}

	first := givenNames[sexIdx][int(hash[1])%10]
	second := givenNames[sexIdx][int(hash[2])%10]
	surname1 := surnames[int(hash[3])%10]
	surname2 := surnames[int(hash[4])%10]
	fullName := fmt.Sprintf("%s %s %s %s", first, second, surname1, surname2)

	year := 1950 + int(hash[5])%55
	month := 1 + int(hash[6])%12
	day := 1 + int(hash[7])%28

	department := cui[9:11]
	municipality := cui[11:13]

	return FullPerson{
		CUI:      cui,
		FullName: fullName,
		Sex:      sex,

		BirthDate:         fmt.Sprintf("%04d-%02d-%02d", year, month, day),
		BirthDepartment:   strconv.Itoa(mustAtoi(department)),
		BirthMunicipality: strconv.Itoa(mustAtoi(municipality)),

		HouseholdID: fmt.Sprintf("HG-%02x%02x%02x", hash[8], hash[9], hash[10]),

		ResidenceDepartment:   strconv.Itoa(mustAtoi(department)),
		ResidenceMunicipality: strconv.Itoa(mustAtoi(municipality)),
		Address:               fmt.Sprintf("%d calle %d-%02d zona %d", 1+int(hash[11])%12, 1+int(hash[12])%10, int(hash[13])%100, 1+int(hash[14])%21),
		Phone:                 fmt.Sprintf("5%07d", (int(hash[15])<<16|int(hash[16])<<8|int(hash[17]))%10000000),

		Works:     pick(hash[18], "Si", "No"),
		CheckedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func pick(b byte, yes, no string) string {
	if b%2 == 0 {
		return yes
	}
	return no
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int) {
	writeJSON(w, status, map[string]any{
		"error": http.StatusText(status),
		"code":  status,
	})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key, fallback string) int {
	n, err := strconv.Atoi(getEnv(key, fallback))
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return n
}
