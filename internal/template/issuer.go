package template

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// IssuerProfile carries the fixed institutional text printed on every
// certificate. A YAML file can override any field; absent fields keep the
// defaults.
type IssuerProfile struct {
	LegalRepresentative string `yaml:"legal_representative"`
	Website             string `yaml:"website"`
	License             string `yaml:"license"`
	Phones              string `yaml:"phones"`
	City                string `yaml:"city"`
	Resolution          string `yaml:"resolution"`
	DefaultTrainer      string `yaml:"default_trainer"`
	DefaultTrainerTitle string `yaml:"default_trainer_title"`
}

func DefaultIssuerProfile() IssuerProfile {
	return IssuerProfile{
		LegalRepresentative: "Mónica Marcela Cañas Gomez",
		Website:             "www.hseqdelgolfo.com.co",
		License:             "Resolución 202460390983 Licencia de Seguridad y Salud en Trabajo, expedida por la Secretaría Seccional de Salud y Protección Social de Antioquia",
		Phones:              "310 463 2102 - 311 609 5867",
		City:                "Apartadó, Antioquia",
		Resolution:          "4272 de 2021 Mintrabajo",
		DefaultTrainer:      "RUBY HIGUITA",
		DefaultTrainerTitle: "Entrenador",
	}
}

// LoadIssuerProfile reads a YAML profile from path, layered over the
// defaults. An empty path returns the defaults unchanged.
func LoadIssuerProfile(path string) (IssuerProfile, error) {
	profile := DefaultIssuerProfile()
	if path == "" {
		return profile, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("reading issuer profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("parsing issuer profile: %w", err)
	}
	return profile, nil
}
